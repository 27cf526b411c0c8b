package seating

import "fmt"

// ringTable builds a table whose seats form a ring: seat i neighbours i-1 and i+1.
func ringTable(id string, number, size int) Table {
	table := Table{ID: id, Number: number}
	for i := 0; i < size; i++ {
		table.Seats = append(table.Seats, Seat{
			ID:      seatID(id, i),
			TableID: id,
			Number:  i,
			Mode:    SeatModeDefault,
			Adjacent: []string{
				seatID(id, (i+size-1)%size),
				seatID(id, (i+1)%size),
			},
		})
	}
	return table
}

func seatID(tableID string, i int) string {
	return fmt.Sprintf("%s-s%d", tableID, i)
}

func internalGuest(id string, ranking int) Guest {
	return Guest{ID: id, Name: id, Ranking: ranking, Internal: true}
}

func externalGuest(id string, ranking int) Guest {
	return Guest{ID: id, Name: id, Ranking: ranking}
}

func byRanking() []SortRule {
	return []SortRule{{Field: SortFieldRanking, Direction: SortAscending}}
}

func lockSeat(t *Table, i int, guestID string) {
	t.Seats[i].Locked = true
	t.Seats[i].GuestID = guestID
}

// seatedAt returns the guest per seat index of a table in a result.
func seatedAt(tables []Table, tableID string) []string {
	for _, table := range tables {
		if table.ID != tableID {
			continue
		}
		out := make([]string, len(table.Seats))
		for _, seat := range table.Seats {
			out[seat.Number] = seat.GuestID
		}
		return out
	}
	return nil
}

func seatOfGuest(tables []Table, guestID string) string {
	for _, table := range tables {
		for _, seat := range table.Seats {
			if seat.GuestID == guestID {
				return seat.ID
			}
		}
	}
	return ""
}
