package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/folio-web/folio/internal/audit"
)

var (
	auditScope  string
	auditAction string
	auditActor  string
	auditSince  time.Duration
	auditLimit  int
	auditJSON   bool
	auditPrune  time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the history of content changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if auditPrune > 0 {
			n, err := a.audit.DeleteBefore(cmd.Context(), time.Now().Add(-auditPrune))
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Pruned %d entries\n", n)
			return nil
		}

		filter := audit.QueryFilter{
			Scope:   audit.Scope(auditScope),
			Action:  audit.Action(auditAction),
			ActorID: auditActor,
			Limit:   auditLimit,
		}
		if auditSince > 0 {
			since := time.Now().Add(-auditSince)
			filter.Since = &since
		}
		entries, err := a.audit.Query(cmd.Context(), filter)
		if err != nil {
			return err
		}

		if auditJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No audit entries.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTOR\tACTION\tSCOPE\tSUMMARY")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s:%s\t%s\t%s\t%s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.ActorType, e.ActorID, e.Action, e.Scope, e.Summary)
		}
		return w.Flush()
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditScope, "scope", "", "only entries for this scope (projects, gallery, about, skills, contact, hero, site)")
	auditCmd.Flags().StringVar(&auditAction, "action", "", "only entries with this action")
	auditCmd.Flags().StringVar(&auditActor, "actor", "", "only entries by this actor id")
	auditCmd.Flags().DurationVar(&auditSince, "since", 0, "only entries newer than this (e.g. 24h)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum entries to show")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print entries as JSON")
	auditCmd.Flags().DurationVar(&auditPrune, "prune", 0, "delete entries older than this instead of listing")
	rootCmd.AddCommand(auditCmd)
}
