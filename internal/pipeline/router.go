package pipeline

import "github.com/bharatml/codemix/internal/langid"

// Route names the action the pipeline takes for one detection/target pair.
type Route string

const (
	// RouteTranslate sends the normalized text straight to a neural model.
	RouteTranslate Route = "translate"

	// RouteTransliterate converts the normalized text to Devanagari and
	// treats the transliteration itself as the final translation. No neural
	// model is invoked on this route.
	RouteTransliterate Route = "transliterate"

	// RouteTransliterateTranslate converts to Devanagari first and then
	// feeds the Devanagari text to the Hindi→English model.
	RouteTransliterateTranslate Route = "transliterate+translate"

	// RouteIdentity passes the normalized text through unchanged. Reached
	// for combinations outside the routing table, e.g. Hindi input with a
	// Hindi target.
	RouteIdentity Route = "identity"
)

// Direction selects which configured model identifier a translate route
// uses.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionEnHi Direction = "en-hi"
	DirectionHiEn Direction = "hi-en"
)

// Decision is the routing outcome for one call: which route to take and,
// when a neural model is involved, in which direction.
type Decision struct {
	Route     Route
	Direction Direction
}

// Decide maps a detection result and requested target language onto the
// pipeline's routing table. It is a pure function: the same inputs always
// produce the same decision.
//
// The table exists because an MT model trained on one script cannot
// reliably consume Hinglish — Hindi semantics in Latin script. Hinglish is
// therefore never sent to a model directly: either the transliteration IS
// the translation (target Hindi), or transliteration bridges into the
// Hindi→English model (target English).
func Decide(det langid.Detection, target langid.Language) Decision {
	switch {
	case det.Language == langid.LangEnglish && target == langid.LangHindi:
		return Decision{Route: RouteTranslate, Direction: DirectionEnHi}

	case (det.Language == langid.LangHindi || det.Script == langid.ScriptDevanagari) &&
		target == langid.LangEnglish:
		return Decision{Route: RouteTranslate, Direction: DirectionHiEn}

	case det.Language == langid.LangHinglish && target == langid.LangHindi:
		return Decision{Route: RouteTransliterate}

	case det.Language == langid.LangHinglish && target == langid.LangEnglish:
		return Decision{Route: RouteTransliterateTranslate, Direction: DirectionHiEn}

	default:
		return Decision{Route: RouteIdentity}
	}
}
