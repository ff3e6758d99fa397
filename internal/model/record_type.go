/*
 * Record types.
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
package model

import "strings"

// RecordType is a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeSPF   RecordType = "SPF"
	RecordTypeNS    RecordType = "NS"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeLOC   RecordType = "LOC"
)

// RecordTypes lists every record type known to the model.
var RecordTypes = []RecordType{
	RecordTypeA,
	RecordTypeAAAA,
	RecordTypeCNAME,
	RecordTypeMX,
	RecordTypeTXT,
	RecordTypeSPF,
	RecordTypeNS,
	RecordTypeSRV,
	RecordTypeLOC,
}

// ParseRecordType returns the record type with the given name, ignoring case.
func ParseRecordType(name string) (RecordType, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, t := range RecordTypes {
		if string(t) == name {
			return t, true
		}
	}
	return RecordType(name), false
}
