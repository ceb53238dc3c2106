package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folio-web/folio/internal/gallery"
	"github.com/folio-web/folio/internal/portfolio"
)

var (
	assumeYes bool

	itemSection     int
	itemTitle       string
	itemDescription string
	itemImageURL    string
	itemImageFile   string
	itemExtra       []string

	importPattern string
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Edit the gallery stored locally",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections and their items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.editor.LoadGallery(cmd.Context())
		if err != nil {
			return err
		}
		if len(doc.Sections) == 0 {
			fmt.Println("No gallery sections yet. Add one with `folio gallery section add <name>`.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tITEM\tTITLE\tIMAGES")
		for si, s := range doc.Sections {
			fmt.Fprintf(w, "%d\t\t%s\t%d item(s)\n", si, s.Name, len(s.Items))
			for ii, it := range s.Items {
				fmt.Fprintf(w, "%d\t%d\t%s\t%d\n", si, ii, displayTitle(it), len(portfolio.ItemImages(it)))
			}
		}
		return w.Flush()
	},
}

func displayTitle(it portfolio.GalleryItem) string {
	if it.Title == "" {
		return "(untitled)"
	}
	return it.Title
}

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Add, rename or delete gallery sections",
}

var sectionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Append a section",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.editor.AddSection(cmd.Context(), cliActor(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added section %d\n", len(doc.Sections)-1)
		return nil
	},
}

var sectionRenameCmd = &cobra.Command{
	Use:   "rename <index> <name>",
	Short: "Rename a section",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.editor.RenameSection(cmd.Context(), cliActor(), i, strings.Join(args[1:], " "))
		return err
	},
}

var sectionDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a section and every item in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.editor.DeleteSection(cmd.Context(), cliActor(), i, promptConfirmer(assumeYes))
		return cancelled(err)
	},
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Add, edit, delete or move gallery items",
}

// itemInput builds the editor form from flags. A local image file is read
// and inlined as a data URI.
func itemInput() (gallery.ItemInput, error) {
	in := gallery.ItemInput{
		Section:     itemSection,
		Title:       itemTitle,
		Description: itemDescription,
		ImageURL:    itemImageURL,
	}
	if itemImageFile != "" {
		uri, err := gallery.ReadDataURI(itemImageFile)
		if err != nil {
			return in, err
		}
		in.ImageBase64 = uri
	}
	for _, u := range itemExtra {
		in.AdditionalImages = append(in.AdditionalImages, portfolio.ImageRef{ImageURL: u})
	}
	return in, nil
}

var itemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an item to a section",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := itemInput()
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ref, err := a.editor.AddItem(cmd.Context(), cliActor(), in, promptConfirmer(assumeYes))
		if err != nil {
			return cancelled(err)
		}
		fmt.Printf("Added item %d/%d\n", ref.Section, ref.Index)
		return nil
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit <section> <index>",
	Short: "Replace an item; --section moves it to another section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseRef(args[0], args[1])
		if err != nil {
			return err
		}
		in, err := itemInput()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("section") {
			in.Section = at.Section
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ref, err := a.editor.UpdateItem(cmd.Context(), cliActor(), at, in, promptConfirmer(assumeYes))
		if err != nil {
			return cancelled(err)
		}
		fmt.Printf("Saved item %d/%d\n", ref.Section, ref.Index)
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <section> <index>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseRef(args[0], args[1])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.editor.DeleteItem(cmd.Context(), cliActor(), at, promptConfirmer(assumeYes))
		return cancelled(err)
	},
}

var itemMoveCmd = &cobra.Command{
	Use:   "move <section> <index> <to-section> <to-index>",
	Short: "Move an item within or across sections",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseRef(args[0], args[1])
		if err != nil {
			return err
		}
		to, err := parseRef(args[2], args[3])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ref, err := a.editor.MoveItem(cmd.Context(), cliActor(), from, to.Section, to.Index)
		if err != nil {
			return err
		}
		fmt.Printf("Moved to %d/%d\n", ref.Section, ref.Index)
		return nil
	},
}

var importDirCmd = &cobra.Command{
	Use:   "import-dir <section> <dir>",
	Short: "Add every image under a directory to a section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, warnings, err := a.editor.ImportDir(cmd.Context(), cliActor(), i, args[1], importPattern)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d image(s)\n", n)
		return nil
	},
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}

func parseRef(section, index string) (gallery.ItemRef, error) {
	s, err := parseIndex(section)
	if err != nil {
		return gallery.ItemRef{}, err
	}
	i, err := parseIndex(index)
	if err != nil {
		return gallery.ItemRef{}, err
	}
	return gallery.ItemRef{Section: s, Index: i}, nil
}

// cancelled turns a declined confirmation into a message instead of an error.
func cancelled(err error) error {
	if errors.Is(err, gallery.ErrCancelled) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}

func init() {
	galleryCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")

	for _, c := range []*cobra.Command{itemAddCmd, itemEditCmd} {
		c.Flags().IntVar(&itemSection, "section", 0, "target section index")
		c.Flags().StringVar(&itemTitle, "title", "", "item title")
		c.Flags().StringVar(&itemDescription, "description", "", "item description")
		c.Flags().StringVar(&itemImageURL, "image-url", "", "main image URL")
		c.Flags().StringVar(&itemImageFile, "image-file", "", "main image file, stored inline")
		c.Flags().StringSliceVar(&itemExtra, "extra", nil, "additional image URLs")
	}
	importDirCmd.Flags().StringVar(&importPattern, "pattern", gallery.DefaultImportPattern, "doublestar glob of files to import")

	sectionCmd.AddCommand(sectionAddCmd, sectionRenameCmd, sectionDeleteCmd)
	itemCmd.AddCommand(itemAddCmd, itemEditCmd, itemDeleteCmd, itemMoveCmd)
	galleryCmd.AddCommand(galleryListCmd, sectionCmd, itemCmd, importDirCmd)
	rootCmd.AddCommand(galleryCmd)
}
