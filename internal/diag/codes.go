package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Структурные (синтаксис формата)
	StrInfo                Code = 1000
	StrParseFailed         Code = 1001
	StrTrailingComma       Code = 1002
	StrMissingComma        Code = 1003
	StrUnexpectedToken     Code = 1004
	StrUnexpectedEOF       Code = 1005
	StrUnclosedString      Code = 1006
	StrBadNumber           Code = 1007
	StrBadLiteral          Code = 1008
	StrDuplicateKey        Code = 1009
	StrInconsistentIndent  Code = 1010
	StrColumnCountMismatch Code = 1011
	StrUnclosedQuote       Code = 1012
	StrTagImbalance        Code = 1013
	StrBareYAMLLine        Code = 1014
	StrUnclosedDelimiter   Code = 1015

	// Схема (типы и закрытые множества значений)
	SchInfo             Code = 2000
	SchTypeMismatch     Code = 2001
	SchEnumViolation    Code = 2002
	SchEmptyValue       Code = 2003
	SchStringTypedValue Code = 2004

	// Статистические аномалии
	AnmInfo        Code = 3000
	AnmOutlier     Code = 3001
	AnmNegative    Code = 3002
	AnmAncientDate Code = 3003
	AnmFutureDate  Code = 3004
	AnmPlaceholder Code = 3005

	// Логические противоречия между полями
	LgcInfo        Code = 4000
	LgcDateOrder   Code = 4001
	LgcDuplicateID Code = 4002

	// Дрейф между версиями
	DrfInfo         Code = 5000
	DrfRecordCount  Code = 5001
	DrfFieldAdded   Code = 5002
	DrfFieldRemoved Code = 5003
	DrfNewEnumValue Code = 5004

	// Ошибки ввода и аварийные ситуации движка
	IntInfo         Code = 6000
	IntFileTooLarge Code = 6001
	IntUnanalyzable Code = 6002
	IntReadFailed   Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown issue",

	StrInfo:                "structure note",
	StrParseFailed:         "document does not parse as the declared format",
	StrTrailingComma:       "trailing comma before a closing bracket",
	StrMissingComma:        "missing comma between members",
	StrUnexpectedToken:     "unexpected token",
	StrUnexpectedEOF:       "unexpected end of input",
	StrUnclosedString:      "string literal is not terminated",
	StrBadNumber:           "malformed number literal",
	StrBadLiteral:          "literal is not valid in this format",
	StrDuplicateKey:        "duplicate object key",
	StrInconsistentIndent:  "inconsistent indentation",
	StrColumnCountMismatch: "row column count differs from header",
	StrUnclosedQuote:       "quoted field is not closed",
	StrTagImbalance:        "opening and closing tag counts differ",
	StrBareYAMLLine:        "line is neither a key-value pair nor a list item",
	StrUnclosedDelimiter:   "unclosed bracket or brace",

	SchInfo:             "schema note",
	SchTypeMismatch:     "value type differs from the field's majority type",
	SchEnumViolation:    "value outside the field's observed value set",
	SchEmptyValue:       "empty value",
	SchStringTypedValue: "typed value stored as a string",

	AnmInfo:        "anomaly note",
	AnmOutlier:     "statistical outlier",
	AnmNegative:    "unexpected negative value",
	AnmAncientDate: "implausibly old date",
	AnmFutureDate:  "date far in the future",
	AnmPlaceholder: "placeholder token in a populated field",

	LgcInfo:        "logic note",
	LgcDateOrder:   "start date is after end date",
	LgcDuplicateID: "duplicate value in a unique identifier field",

	DrfInfo:         "drift note",
	DrfRecordCount:  "record count changed significantly",
	DrfFieldAdded:   "field added since the previous version",
	DrfFieldRemoved: "field removed since the previous version",
	DrfNewEnumValue: "new value in a closed value set",

	IntInfo:         "engine note",
	IntFileTooLarge: "file exceeds the size ceiling",
	IntUnanalyzable: "file could not be analyzed",
	IntReadFailed:   "file could not be read",
}

// Category derives the finding category from the code range.
// Engine-level failures (6000+) are structural: they stop the pipeline
// exactly like a parse failure does.
func (c Code) Category() Category {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return CatSchema
	case ic >= 3000 && ic < 4000:
		return CatAnomaly
	case ic >= 4000 && ic < 5000:
		return CatLogic
	case ic >= 5000 && ic < 6000:
		return CatDrift
	}
	return CatStructure
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("STR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SCH%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LGC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DRF%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
