package kpi

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

// closedLeadRetentionDays keeps closed leads visible briefly after the
// decision before they age out of the open-lead list.
const closedLeadRetentionDays = 7

// openLeads reduces the pending-lead table to the leads that should still
// appear as open:
//
//  1. leads without an owner name are dropped;
//  2. non-closed leads whose owner name already exists among the partners or
//     the inventory have graduated into the roster and are suppressed; the
//     status-change path creates the partner before the lead row itself is
//     cleaned up, so without this the same partner shows twice;
//  3. closed leads age out once their reference date (status change date,
//     else the lead date) is more than 7 calendar days old; unparsable or
//     absent dates keep the lead (fail open).
//
// The result is sorted most recent first; undated leads sort before dated
// ones, ties break by owner name with German collation.
func openLeads(leads []model.PendingLeadEntry, owners ownerIndex, inventoryNames map[string]struct{}, now time.Time) []model.PendingLeadEntry {
	out := make([]model.PendingLeadEntry, 0, len(leads))
	for _, lead := range leads {
		entry := lead
		entry.OwnerName = strings.TrimSpace(lead.OwnerName)

		normalized := geo.Normalize(entry.OwnerName)
		if normalized == "" {
			continue
		}

		closed := entry.Status.Closed()
		if !closed {
			if owners.hasName(normalized) {
				continue
			}
			if _, exists := inventoryNames[normalized]; exists {
				continue
			}
		}

		if closed {
			reference := entry.StatusUpdatedAt
			if reference == "" {
				reference = entry.Date
			}
			if parsed := model.ParseDate(reference); parsed != nil &&
				model.CalendarDaysBetween(now, *parsed) > closedLeadRetentionDays {
				continue
			}
		}

		out = append(out, entry)
	}

	c := collate.New(language.German)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Date != "" && b.Date != "":
			if a.Date != b.Date {
				return a.Date > b.Date
			}
			return c.CompareString(a.OwnerName, b.OwnerName) < 0
		case a.Date == "" && b.Date != "":
			return true
		case a.Date != "" && b.Date == "":
			return false
		default:
			return c.CompareString(a.OwnerName, b.OwnerName) < 0
		}
	})
	return out
}
