package affect

// Playback rates per category. 2.0 is the engine's natural speed.
const (
	CuriousRate = 2.2
	SimpleRate  = 2.0
	NervousRate = 1.6
	NeutralRate = 2.0
)

// RateFor returns the playback rate for answers in category c.
func RateFor(c Category) float64 {
	switch c {
	case Curious:
		return CuriousRate
	case Nervous:
		return NervousRate
	case Simple:
		return SimpleRate
	default:
		return NeutralRate
	}
}

// Style returns a short instruction describing how to answer a question
// in category c.
func Style(c Category) string {
	switch c {
	case Curious:
		return "Open with enthusiasm, explain why it works, connect it to a bigger idea and end by encouraging more deep questions."
	case Nervous:
		return "Stay calm and reassuring, break the answer into two or three tiny numbered steps with one simple example, and end with encouragement."
	default:
		return "Give the direct answer first with one clear example, keep it short, and check understanding at the end."
	}
}
