package bearing

import "strings"

// InputState tracks where a field is in its edit cycle.
type InputState int

const (
	StateIdle InputState = iota
	StateEditing
	StateValid
	StateInvalid
	StateCommitted
)

// Change is emitted when a new, valid value is committed.
type Change struct {
	Value  string `json:"value"`
	Format Format `json:"format"`
}

// CalculatorRequest is emitted when the user opens the bearing calculator.
type CalculatorRequest struct {
	Type         string `json:"type"`
	CurrentValue string `json:"currentValue"`
}

// QuickPicks are the four cardinal bearings offered as one-tap presets.
var QuickPicks = []string{
	`000°00'00.0"`,
	`090°00'00.0"`,
	`180°00'00.0"`,
	`270°00'00.0"`,
}

// suggestionPresets is the fixed set behind the suggestion dropdown.
var suggestionPresets = []string{
	`0°00'00.0"`,
	`45°00'00.0"`,
	`90°00'00.0"`,
	`135°00'00.0"`,
	`180°00'00.0"`,
	`225°00'00.0"`,
	`270°00'00.0"`,
	`315°00'00.0"`,
}

// Input models the bearing text field: live validation on every keystroke,
// commit only on valid and changed values, preset shortcuts that skip the
// editing state, and in-place format conversion.
type Input struct {
	format    Format
	text      string
	committed string
	state     InputState
	readOnly  bool

	onChange         func(Change)
	onOpenCalculator func(CalculatorRequest)
}

func NewInput(format Format) *Input {
	if format == "" {
		format = FormatDMS
	}
	return &Input{format: format, state: StateIdle}
}

func (in *Input) OnChange(fn func(Change)) { in.onChange = fn }

func (in *Input) OnOpenCalculator(fn func(CalculatorRequest)) { in.onOpenCalculator = fn }

func (in *Input) SetReadOnly(ro bool) { in.readOnly = ro }
func (in *Input) ReadOnly() bool      { return in.readOnly }

func (in *Input) Text() string      { return in.text }
func (in *Input) Format() Format    { return in.format }
func (in *Input) State() InputState { return in.state }
func (in *Input) Valid() bool       { return Validate(in.text, in.format) }

// SetText is the keystroke path: Editing, then synchronously Valid or Invalid.
func (in *Input) SetText(text string) {
	if in.readOnly {
		return
	}
	in.text = text
	in.state = StateEditing
	if Validate(text, in.format) {
		in.state = StateValid
	} else {
		in.state = StateInvalid
	}
}

// Commit propagates the current value upward. Only a valid value that differs
// from the previously committed one produces a Change.
func (in *Input) Commit() bool {
	if in.readOnly || in.state != StateValid {
		return false
	}
	if in.text == in.committed {
		return false
	}
	in.committed = in.text
	in.state = StateCommitted
	if in.onChange != nil {
		in.onChange(Change{Value: in.text, Format: in.format})
	}
	return true
}

// SelectPreset applies a suggestion or quick-pick. Presets are well-formed by
// construction, so this bypasses Editing and commits directly.
func (in *Input) SelectPreset(preset string) bool {
	if in.readOnly {
		return false
	}
	if !Validate(preset, in.format) {
		return false
	}
	in.text = preset
	in.state = StateValid
	return in.Commit()
}

// Suggestions returns the presets whose text contains the current input.
func (in *Input) Suggestions() []string {
	if in.readOnly {
		return nil
	}
	needle := strings.TrimSpace(in.text)
	if needle == "" {
		return suggestionPresets
	}
	var out []string
	for _, p := range suggestionPresets {
		if strings.Contains(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Convert rewrites the current text into the target format and, on success,
// flips the field's declared format to match.
func (in *Input) Convert(target Format) bool {
	if in.readOnly || target == in.format {
		return false
	}
	switch target {
	case FormatDD:
		d, ok := ToDecimalDegrees(in.text)
		if !ok {
			return false
		}
		in.text = formatDecimal(d)
	case FormatDMS:
		d, ok := parseDecimal(strings.TrimSpace(in.text))
		if !ok {
			return false
		}
		s, ok := ToDMS(d)
		if !ok {
			return false
		}
		in.text = s
	default:
		return false
	}
	in.format = target
	in.state = StateValid
	return true
}

// ApplyBackBearing replaces the text with its reciprocal in the same format.
// A failed conversion leaves the text untouched, matching BackBearing.
func (in *Input) ApplyBackBearing() {
	if in.readOnly {
		return
	}
	in.SetText(BackBearing(in.text, in.format))
}

// OpenCalculator asks the host UI to show the bearing calculator.
func (in *Input) OpenCalculator() {
	if in.readOnly || in.onOpenCalculator == nil {
		return
	}
	in.onOpenCalculator(CalculatorRequest{Type: "bearing", CurrentValue: in.text})
}
