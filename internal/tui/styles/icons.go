package styles

const (
	CheckIcon   string = "✓"
	ErrorIcon   string = "×"
	WarningIcon string = "⚠"
	InfoIcon    string = "ⓘ"

	GrabIcon   string = "⠿"
	PinIcon    string = "◆"
	StickyIcon string = "§"
	MoveIcon   string = "↕"

	BorderThin string = "│"
)
