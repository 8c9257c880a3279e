package analysis

// Mood is a descriptive label for a playlist with the gradient tokens the frontend paints it with.
type Mood struct {
	Mood        string `json:"mood"`
	Description string `json:"description"`
	ColorFrom   string `json:"color_from"`
	ColorTo     string `json:"color_to"`
}

var (
	EnergeticJoyful = Mood{
		Mood:        "Energetic & Joyful",
		Description: "This playlist radiates positive energy.",
		ColorFrom:   "from-yellow-300",
		ColorTo:     "to-pink-400",
	}
	PeacefulHappy = Mood{
		Mood:        "Peaceful & Happy",
		Description: "Calm but uplifting.",
		ColorFrom:   "from-green-300",
		ColorTo:     "to-blue-300",
	}
	IntensePassionate = Mood{
		Mood:        "Intense & Passionate",
		Description: "Strong emotional energy.",
		ColorFrom:   "from-red-400",
		ColorTo:     "to-purple-500",
	}
	MelancholicReflective = Mood{
		Mood:        "Melancholic & Reflective",
		Description: "Slow and emotional.",
		ColorFrom:   "from-indigo-400",
		ColorTo:     "to-slate-500",
	}
	GroovyDanceable = Mood{
		Mood:        "Groovy & Danceable",
		Description: "Fun and rhythmic.",
		ColorFrom:   "from-purple-400",
		ColorTo:     "to-pink-500",
	}
	BalancedVersatile = Mood{
		Mood:        "Balanced & Versatile",
		Description: "A flexible blend.",
		ColorFrom:   "from-teal-300",
		ColorTo:     "to-cyan-400",
	}
)

// Moods lists every classification in evaluation order.
var Moods = []Mood{
	EnergeticJoyful,
	PeacefulHappy,
	IntensePassionate,
	MelancholicReflective,
	GroovyDanceable,
	BalancedVersatile,
}

// Classify maps averaged valence, energy and danceability to a [Mood].
//
// Branches are evaluated in order and the first match wins; the valence/energy quadrants take priority over
// danceability.
func Classify(valence, energy, danceability float64) Mood {
	switch {
	case valence > 0.6 && energy > 0.6:
		return EnergeticJoyful
	case valence > 0.6 && energy < 0.4:
		return PeacefulHappy
	case valence < 0.4 && energy > 0.6:
		return IntensePassionate
	case valence < 0.4 && energy < 0.4:
		return MelancholicReflective
	case danceability > 0.7:
		return GroovyDanceable
	default:
		return BalancedVersatile
	}
}
