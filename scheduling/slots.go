// Package scheduling holds the fixed night-of-play slot catalog and the
// pure conflict scans the match service runs before a save.
package scheduling

// timeSlots is every quarter-hour of a league night, in play order. Slots
// are identified by their display string everywhere: the schedule table,
// the API, and the admin screens all carry the same value.
var timeSlots = []string{
	"6:00 PM", "6:15 PM", "6:30 PM", "6:45 PM",
	"7:00 PM", "7:15 PM", "7:30 PM", "7:45 PM",
	"8:00 PM", "8:15 PM", "8:30 PM", "8:45 PM",
	"9:00 PM", "9:15 PM", "9:30 PM", "9:45 PM",
}

// TimeSlots returns the catalog in play order.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// SlotIndex returns a slot's position in play order, or -1 for an unknown
// slot.
func SlotIndex(slot string) int {
	for i, s := range timeSlots {
		if s == slot {
			return i
		}
	}
	return -1
}

// ValidTimeSlot reports whether slot is in the catalog.
func ValidTimeSlot(slot string) bool {
	return SlotIndex(slot) >= 0
}
