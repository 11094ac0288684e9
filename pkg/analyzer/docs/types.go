package docs

// EntityKind classifies a documentable entity.
type EntityKind string

const (
	KindModule   EntityKind = "module"
	KindClass    EntityKind = "class"
	KindFunction EntityKind = "function"
)

// Entity is one declaration that requires documentation.
type Entity struct {
	Kind EntityKind `json:"kind"`
	Name string     `json:"name"`
	Line uint32     `json:"line"`
}

// Coverage reports docstring coverage for one unit.
type Coverage struct {
	Documentable int      `json:"documentable"`
	Documented   int      `json:"documented"`
	Ratio        float64  `json:"ratio"`
	Score        float64  `json:"score"`
	Missing      []Entity `json:"missing,omitempty"`

	FunctionsTotal      int  `json:"functions_total"`
	FunctionsDocumented int  `json:"functions_documented"`
	ClassesTotal        int  `json:"classes_total"`
	ClassesDocumented   int  `json:"classes_documented"`
	ModuleDocumented    bool `json:"module_documented"`
}
