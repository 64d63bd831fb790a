package zodiac

// TotalYears is the length of one full Vimshottari cycle.
const TotalYears = 120

// lordOrder is the fixed Vimshottari sequence. Nakshatra i is ruled by
// lordOrder[i mod 9].
var lordOrder = [9]Body{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

// lordYears holds each lord's Mahadasha length, indexed by Body.
var lordYears = [9]int{
	Sun:     6,
	Moon:    10,
	Mercury: 17,
	Venus:   20,
	Mars:    7,
	Jupiter: 16,
	Saturn:  19,
	Rahu:    18,
	Ketu:    7,
}

// lordIndex maps each body to its position in lordOrder, built once.
var lordIndex = func() [9]int {
	var idx [9]int
	for i, b := range lordOrder {
		idx[b] = i
	}
	return idx
}()

// LordOrder returns the nine Vimshottari lords in sequence, starting at Ketu.
func LordOrder() []Body {
	out := make([]Body, len(lordOrder))
	copy(out, lordOrder[:])
	return out
}

// Years returns the body's Mahadasha length in years. It returns 0 for an
// invalid body.
func Years(b Body) int {
	if !b.Valid() {
		return 0
	}
	return lordYears[b]
}

// LordIndex returns the body's position in the Vimshottari sequence.
func LordIndex(b Body) int {
	return lordIndex[b]
}

// NextLord returns the lord n steps after b in the cyclic sequence.
func NextLord(b Body, n int) Body {
	i := ((lordIndex[b]+n)%len(lordOrder) + len(lordOrder)) % len(lordOrder)
	return lordOrder[i]
}
