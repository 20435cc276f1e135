// ABOUTME: Demo contacts used to pre-seed a new document
// ABOUTME: Gives first-run users something to look at in every view
package models

import "time"

// SeedContacts returns a small demo pipeline spread over a few statuses and continents.
func SeedContacts(now time.Time) []Contact {
	lastWeek := now.AddDate(0, 0, -7)
	nextWeek := now.AddDate(0, 0, 7)

	studio := NewContact("Maya Lindqvist", "Northlight Studios", now)
	studio.Role = "VFX Producer"
	studio.Sector = SectorFilm
	studio.Continent = ContinentEurope
	studio.Location = "Stockholm, Sweden"
	studio.Email = "maya@northlight.example"
	studio.Rate = "€450/day"
	studio.Notes = "Met at FMX. Looking for compositors for a spring feature."
	studio.Tags = []string{"Compositing", "Feature"}
	studio.SetStatus(StatusNegotiating, now)
	studio.AddLog(NewLogEntry(LogMeeting, lastWeek, "Intro call about spring feature"))
	studio.NextFollowUp = &nextWeek

	agency := NewContact("Jordan Ellis", "Brightline Creative", now)
	agency.Role = "Creative Director"
	agency.Sector = SectorAdvertising
	agency.Continent = ContinentNorthAmerica
	agency.Location = "Toronto, Canada"
	agency.Website = "https://brightline.example"
	agency.Tags = []string{"Motion", "Commercials"}
	agency.SetStatus(StatusContacted, now)
	agency.AddLog(NewLogEntry(LogEmail, lastWeek, "Sent reel"))

	games := NewContact("Kenji Watanabe", "Red Lantern Games", now)
	games.Role = "Art Director"
	games.Sector = SectorGames
	games.Continent = ContinentAsia
	games.Location = "Osaka, Japan"
	games.Tags = []string{"Cinematics"}

	return []Contact{studio, agency, games}
}
