package server

import (
	"github.com/microcosm-collective/itemcache/models"
)

// Field name   | Mandatory? | Allowed values  | Allowed special characters
// ----------   | ---------- | --------------  | --------------------------
// Seconds      | Yes        | 0-59            | * / , -
// Minutes      | Yes        | 0-59            | * / , -
// Hours        | Yes        | 0-23            | * / , -
// Day of month | Yes        | 1-31            | * / , - ?
// Month        | Yes        | 1-12 or JAN-DEC | * / , -
// Day of week  | Yes        | 0-6 or SUN-SAT  | * / , - ?

func jobs(m *models.ItemCache) map[string]func() {
	return map[string]func(){
		//SS MI HH  DOM MON DOW
		"  0  *     *    *   *   *": models.LogItemStats(m), // Every minute
	}
}
