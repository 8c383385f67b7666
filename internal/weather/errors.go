package weather

import "fmt"

// InvalidICAOError is returned when the requested aerodrome identifier is not
// a four character ICAO code
type InvalidICAOError struct {
	ICAO string
}

func (e *InvalidICAOError) Error() string {
	return fmt.Sprintf("invalid ICAO code %q: expected 4 letters or digits", e.ICAO)
}

func NewInvalidICAOError(icao string) *InvalidICAOError {
	return &InvalidICAOError{ICAO: icao}
}
