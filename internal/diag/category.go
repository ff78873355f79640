package diag

// Category names the analysis stage family a finding belongs to.
type Category uint8

const (
	CatStructure Category = iota
	CatSchema
	CatAnomaly
	CatLogic
	CatDrift
)

func (c Category) String() string {
	switch c {
	case CatStructure:
		return "structure"
	case CatSchema:
		return "schema"
	case CatAnomaly:
		return "anomaly"
	case CatLogic:
		return "logic"
	case CatDrift:
		return "drift"
	}
	return "unknown"
}
