// ABOUTME: Fixed enumerations for contact classification
// ABOUTME: Status, Sector, Continent, and LogType with lenient cell parsing
package models

import "strings"

type Status string

const (
	StatusOld         Status = "Old"
	StatusNew         Status = "New"
	StatusContacted   Status = "Contacted"
	StatusNegotiating Status = "Negotiating"
	StatusActive      Status = "Active"
	StatusCompleted   Status = "Completed"
	StatusArchived    Status = "Archived"
)

// Statuses lists the pipeline in board order.
var Statuses = []Status{
	StatusOld, StatusNew, StatusContacted, StatusNegotiating,
	StatusActive, StatusCompleted, StatusArchived,
}

const DefaultStatus = StatusNew

type Sector string

const (
	SectorFilm         Sector = "Film"
	SectorTelevision   Sector = "Television"
	SectorAdvertising  Sector = "Advertising"
	SectorGames        Sector = "Games"
	SectorAnimation    Sector = "Animation"
	SectorArchitecture Sector = "Architecture"
	SectorMusic        Sector = "Music"
	SectorOther        Sector = "Other"
)

var Sectors = []Sector{
	SectorFilm, SectorTelevision, SectorAdvertising, SectorGames,
	SectorAnimation, SectorArchitecture, SectorMusic, SectorOther,
}

const DefaultSector = SectorOther

type Continent string

const (
	ContinentEurope       Continent = "Europe"
	ContinentNorthAmerica Continent = "North America"
	ContinentSouthAmerica Continent = "South America"
	ContinentAsia         Continent = "Asia"
	ContinentAfrica       Continent = "Africa"
	ContinentOceania      Continent = "Oceania"
)

var Continents = []Continent{
	ContinentEurope, ContinentNorthAmerica, ContinentSouthAmerica,
	ContinentAsia, ContinentAfrica, ContinentOceania,
}

// DefaultContinent is also what every CSV import is forced to.
const DefaultContinent = ContinentEurope

type LogType string

const (
	LogEmail   LogType = "Email"
	LogCall    LogType = "Call"
	LogMeeting LogType = "Meeting"
	LogSocial  LogType = "Social"
)

var LogTypes = []LogType{LogEmail, LogCall, LogMeeting, LogSocial}

// Known reports whether s is one of the fixed statuses.
func (s Status) Known() bool {
	_, ok := matchLabel(string(s), Statuses)
	return ok
}

func (s Sector) Known() bool {
	_, ok := matchLabel(string(s), Sectors)
	return ok
}

func (c Continent) Known() bool {
	_, ok := matchLabel(string(c), Continents)
	return ok
}

func (t LogType) Known() bool {
	_, ok := matchLabel(string(t), LogTypes)
	return ok
}

// Next returns the following pipeline status, or s itself at the end.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s && i+1 < len(Statuses) {
			return Statuses[i+1]
		}
	}
	return s
}

// Prev returns the preceding pipeline status, or s itself at the start.
func (s Status) Prev() Status {
	for i, st := range Statuses {
		if st == s && i > 0 {
			return Statuses[i-1]
		}
	}
	return s
}

// StatusFromCell applies the lenient policy used for untrusted input: a blank
// cell yields the default, a known label (any case) is canonicalised, and
// anything else is kept verbatim with ok=false so callers can report it.
func StatusFromCell(cell string) (Status, bool) {
	return fromCell(cell, Statuses, DefaultStatus)
}

// SectorFromCell follows the same policy as StatusFromCell.
func SectorFromCell(cell string) (Sector, bool) {
	return fromCell(cell, Sectors, DefaultSector)
}

// ParseStatus is strict: unknown labels are rejected.
func ParseStatus(s string) (Status, bool) {
	return matchLabel(s, Statuses)
}

func ParseSector(s string) (Sector, bool) {
	return matchLabel(s, Sectors)
}

func ParseContinent(s string) (Continent, bool) {
	return matchLabel(s, Continents)
}

func ParseLogType(s string) (LogType, bool) {
	return matchLabel(s, LogTypes)
}

func fromCell[T ~string](cell string, known []T, def T) (T, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return def, true
	}
	if v, ok := matchLabel(cell, known); ok {
		return v, true
	}
	return T(cell), false
}

func matchLabel[T ~string](s string, known []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, k := range known {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return T(s), false
}
