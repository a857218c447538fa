package publishers

import (
	"time"

	"github.com/guildwatch-hq/wcl-harvester/internal/domain"
)

// Event is the payload published downstream when a new report shows up for a
// watched guild.
type Event struct {
	WatchID      string        `json:"watch_id"`
	Guild        string        `json:"guild"`
	Server       string        `json:"server"`
	Region       string        `json:"region"`
	Report       domain.Report `json:"report"`
	DiscoveredAt time.Time     `json:"discovered_at"`
}

// NewEvent constructs an Event for the given watch entry + report.
func NewEvent(watchID, guild, server, region string, report domain.Report) Event {
	return Event{
		WatchID:      watchID,
		Guild:        guild,
		Server:       server,
		Region:       region,
		Report:       report,
		DiscoveredAt: time.Now().UTC(),
	}
}
