package audit

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/golang/glog"
)

// Internal single-char indication of the auditable actions
const (
	create = `C`
	delete = `D`
)

// Recorder appends item writes to the item_audit table. A nil Recorder
// records nothing.
type Recorder struct {
	db      *sql.DB
	timeout time.Duration
}

// NewRecorder returns a Recorder writing through the given pool
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, timeout: 5 * time.Second}
}

// Create records an insert/create/POST action
func (r *Recorder) Create(
	itemID int64,
	seen time.Time,
	ipAddress net.IP) {

	r.recordAction(itemID, seen, ipAddress, create)
}

// Delete records a remove/DELETE action
func (r *Recorder) Delete(
	itemID int64,
	seen time.Time,
	ipAddress net.IP) {

	r.recordAction(itemID, seen, ipAddress, delete)
}

// recordAction actually appends to the audit log. Failures are logged and
// never reach the caller; the write being audited has already happened.
func (r *Recorder) recordAction(
	itemID int64,
	seen time.Time,
	ipAddress net.IP,
	action string,
) {

	if r == nil || r.db == nil {
		return
	}

	if ipAddress == nil {
		if glog.V(2) {
			glog.Infof("IP Address was nil for item %d", itemID)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO item_audit (
    item_id, action, seen, ip
 ) VALUES (
    $1, $2, $3, $4
 )`,
		itemID,
		action,
		seen,
		ipAddress.String(),
	)
	if err != nil {
		glog.Error(err)
		return
	}
}
