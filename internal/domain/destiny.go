package domain

// Destiny is the pre-determined outcome assigned to a token at creation.
type Destiny string

const (
	DestinyGraduated  Destiny = "GRADUATED"
	DestinyDeath5Min  Destiny = "DEATH_5MIN"
	DestinyDeath10Min Destiny = "DEATH_10MIN"
	DestinyRugPull    Destiny = "RUG_PULL"
	DestinySurvival   Destiny = "SURVIVAL"
)

// AllDestinies lists every destiny in draw order.
var AllDestinies = []Destiny{
	DestinyGraduated,
	DestinyDeath5Min,
	DestinyDeath10Min,
	DestinyRugPull,
	DestinySurvival,
}

// String returns the string representation of Destiny.
func (d Destiny) String() string {
	return string(d)
}

// IsValid checks if the destiny is a valid value.
func (d Destiny) IsValid() bool {
	switch d {
	case DestinyGraduated, DestinyDeath5Min, DestinyDeath10Min, DestinyRugPull, DestinySurvival:
		return true
	}
	return false
}
