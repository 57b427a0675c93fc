package notify

import (
	"hash/fnv"
	"time"

	"github.com/minaret-labs/minaret/internal/model"
)

// AllocateID maps (event date, event name, kind) to a stable integer:
//
//	YYMMDD * 10^4  +  (fnv32a(name) mod 1000) * 10  +  kind
//
// The same triple always yields the same ID, so cancel-then-recreate runs
// can never collide with or orphan a prior run's entries. The name hash
// occupies 1000 slots per day per kind; the event set here is the five
// named prayers, far below the bound. Collisions become possible only at
// very large event-name cardinalities, which is an accepted limit.
func AllocateID(eventDate time.Time, eventName string, kind model.NotificationKind) int {
	date := eventDate.Year()%100*10000 + int(eventDate.Month())*100 + eventDate.Day()
	return date*10000 + hashName(eventName)*10 + int(kind)
}

func hashName(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() % 1000)
}
