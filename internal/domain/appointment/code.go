package appointment

import (
	"fmt"

	"github.com/google/uuid"
)

const codePad = 3

// WebCode renders a web booking sequence code, e.g. prefix "AB" and
// value 1 become "CAB-001". Values past 999 widen naturally.
func WebCode(prefix string, value int) string {
	return fmt.Sprintf("C%s-%0*d", prefix, codePad, value)
}

// KioskCode renders a walk-in ticket code, e.g. "AB-001".
func KioskCode(prefix string, value int) string {
	return fmt.Sprintf("%s-%0*d", prefix, codePad, value)
}

// WebPartition keys the per-procedure-per-day counter. Web counters are
// never reset; the day component rotates them.
func WebPartition(procedureID uuid.UUID, date string) string {
	return fmt.Sprintf("web:%s:%s", procedureID, date)
}

// KioskPartition keys the per-procedure kiosk counter, zeroed by the
// scheduled reset job rather than by key rotation.
func KioskPartition(procedureID uuid.UUID) string {
	return fmt.Sprintf("kiosk:%s", procedureID)
}

// ResourceLockKey is the exclusivity marker for one slot of one
// procedure on one day.
func ResourceLockKey(procedureID uuid.UUID, date, timeOfDay string) string {
	return fmt.Sprintf("slot:%s:%s:%s", procedureID, date, timeOfDay)
}

// SubjectLockKey blocks a citizen from holding two bookings at the same
// day and time across procedures.
func SubjectLockKey(citizenID, date, timeOfDay string) string {
	return fmt.Sprintf("citizen:%s:%s:%s", citizenID, date, timeOfDay)
}

const (
	LockKindResource = "resource"
	LockKindSubject  = "subject"
)
