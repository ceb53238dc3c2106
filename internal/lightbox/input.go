package lightbox

// HandleKey dispatches a keyboard event. Keys are ignored while the overlay
// is closed. It reports whether the key changed anything.
func (n *Navigator) HandleKey(key string) bool {
	if !n.open {
		return false
	}
	switch key {
	case KeyEscape:
		n.Close()
	case KeyArrowLeft:
		n.Previous()
	case KeyArrowRight:
		n.Next()
	default:
		return false
	}
	return true
}

// HandleSwipe dispatches a touch swipe from startX to endX. Moving left past
// the threshold goes forward, moving right goes back.
func (n *Navigator) HandleSwipe(startX, endX float64) bool {
	return n.horizontal(startX, endX)
}

// HandleDrag dispatches a pointer drag; it follows the swipe rules.
func (n *Navigator) HandleDrag(startX, endX float64) bool {
	return n.horizontal(startX, endX)
}

func (n *Navigator) horizontal(startX, endX float64) bool {
	if !n.open {
		return false
	}
	diff := startX - endX
	switch {
	case diff > SwipeThreshold:
		n.Next()
	case diff < -SwipeThreshold:
		n.Previous()
	default:
		return false
	}
	return true
}

// HandleBackgroundClick closes the overlay when the backdrop is clicked.
func (n *Navigator) HandleBackgroundClick() bool {
	if !n.open {
		return false
	}
	n.Close()
	return true
}
