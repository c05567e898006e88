// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package billing

import (
	"errors"
	"fmt"
)

// Room type labels as the API stores them.
const (
	RoomBedsitter  = "Bedsitter"
	RoomOneBedroom = "1-Bedroom"
	RoomTwoBedroom = "2-Bedroom"
	RoomStudio     = "Studio"
	RoomThreeBed   = "3-Bedroom"
)

// Utility charges, billed once per period regardless of room type.
const (
	WaterPrice       int64 = 800
	ElectricityPrice int64 = 1200
)

// Currency is the display prefix for amounts.
const Currency = "Ksh"

// RoomType is one row of the pricing table.
type RoomType struct {
	ID         string
	Label      string
	Rent       int64
	Selectable bool
}

// rooms is ordered for display. Studio and 3-Bedroom exist on older records
// but are no longer offered to new tenants.
var rooms = []RoomType{
	{ID: RoomBedsitter, Label: "Bedsitter", Rent: 5000, Selectable: true},
	{ID: RoomOneBedroom, Label: "1 Bedroom", Rent: 8000, Selectable: true},
	{ID: RoomTwoBedroom, Label: "2 Bedroom", Rent: 12000, Selectable: true},
	{ID: RoomStudio, Label: "Studio", Rent: 6000},
	{ID: RoomThreeBed, Label: "3 Bedroom", Rent: 15000},
}

var rentByRoom = func() map[string]int64 {
	m := make(map[string]int64, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r.Rent
	}
	return m
}()

// Rent returns the monthly rent for a room type. Unknown room types cost 0.
func Rent(roomType string) int64 {
	return rentByRoom[roomType]
}

// KnownRoom reports whether roomType has an entry in the pricing table.
func KnownRoom(roomType string) bool {
	_, ok := rentByRoom[roomType]
	return ok
}

// SelectableRooms returns the room types a tenant may choose.
func SelectableRooms() []RoomType {
	out := make([]RoomType, 0, len(rooms))
	for _, r := range rooms {
		if r.Selectable {
			out = append(out, r)
		}
	}
	return out
}

// IsSelectable reports whether a tenant may choose roomType.
func IsSelectable(roomType string) bool {
	for _, r := range rooms {
		if r.ID == roomType {
			return r.Selectable
		}
	}
	return false
}

// ErrUnknownBill is returned when a bill name is not rent, water or electricity.
var ErrUnknownBill = errors.New("unknown bill type")

// Bill identifies one of the three charges on a tenant account.
type Bill string

const (
	BillRent        Bill = "rent"
	BillWater       Bill = "water"
	BillElectricity Bill = "electricity"
)

// Bills lists every bill in display order.
var Bills = []Bill{BillRent, BillWater, BillElectricity}

// ParseBill converts a wire value into a Bill.
func ParseBill(s string) (Bill, error) {
	switch b := Bill(s); b {
	case BillRent, BillWater, BillElectricity:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBill, s)
}

// Amount is the price of the bill for the given room type.
func (b Bill) Amount(roomType string) int64 {
	switch b {
	case BillRent:
		return Rent(roomType)
	case BillWater:
		return WaterPrice
	case BillElectricity:
		return ElectricityPrice
	}
	return 0
}

// Title is the human label used on bill cards.
func (b Bill) Title() string {
	switch b {
	case BillRent:
		return "Monthly Rent"
	case BillWater:
		return "Water Bill"
	case BillElectricity:
		return "Electricity Bill"
	}
	return string(b)
}
