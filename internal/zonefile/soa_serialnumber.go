/*
 * SOA serial number - date based serial numbers for exported zones.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package zonefile

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// format of the date part of the serial number
const fmtSerialDate = "20060102"

// Serial is a SOA serial number in the YYYYMMDDnn form.
type Serial struct {
	date    string
	version int
}

// NewSerial returns the first serial number of the day of now.
func NewSerial(now time.Time) Serial {
	return Serial{date: now.Format(fmtSerialDate)}
}

// ParseSerial parses a serial number. Dates after now are rejected.
func ParseSerial(sn string, now time.Time) (Serial, error) {
	if len(sn) != 10 {
		return Serial{}, fmt.Errorf("serial number \"%s\" is unsupported", sn)
	}
	datePart := sn[:8]
	date, err := time.Parse(fmtSerialDate, datePart)
	if err != nil {
		return Serial{}, fmt.Errorf("cannot parse date in serial number \"%s\"", sn)
	}
	today, _ := time.Parse(fmtSerialDate, now.Format(fmtSerialDate))
	if date.After(today) {
		return Serial{}, fmt.Errorf("unexpected date part \"%s\" is in the future", datePart)
	}
	version, err := strconv.Atoi(sn[8:])
	if err != nil || version < 0 {
		return Serial{}, fmt.Errorf("cannot parse version in serial number \"%s\"", sn)
	}
	return Serial{date: datePart, version: version}, nil
}

// Next returns the serial number following s on the day of now.
func (s Serial) Next(now time.Time) (Serial, error) {
	today := now.Format(fmtSerialDate)
	if today != s.date {
		return Serial{date: today}, nil
	}
	if s.version == 99 {
		return s, errors.New("cannot increment version as it is 99")
	}
	return Serial{date: s.date, version: s.version + 1}, nil
}

// String returns the serial number as ten digits.
func (s Serial) String() string {
	return fmt.Sprintf("%s%02d", s.date, s.version)
}

// Uint32 returns the serial number as written in the SOA record.
func (s Serial) Uint32() uint32 {
	date, _ := strconv.ParseUint(s.date, 10, 32)
	return uint32(date)*100 + uint32(s.version)
}
