package config

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// RootDefinition is the definition a card schema is validated against.
// Custom schemas without it are unified as a whole.
const RootDefinition = "#WindRoseCard"

// BuiltinSchema is the name of the built-in card schema.
const BuiltinSchema = "windrose-card"

// SchemaRegistry manages CUE schemas used for strict structural checks of
// raw card configuration. It complements, never replaces, the builders.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.Mutex
}

// NewSchemaRegistry creates a registry holding the built-in card schema.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
	if err := sr.RegisterSchema(BuiltinSchema, builtinCardSchema); err != nil {
		panic(fmt.Sprintf("built-in card schema does not compile: %v", err))
	}
	return sr
}

// RegisterSchema compiles and registers a CUE schema under name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema, cue.Filename(name+".cue"))
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ListSchemas returns all registered schema names, sorted.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateAgainstSchema unifies decoded card data with the named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()

	schema, ok := sr.schemas[schemaName]
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}
	if def := schema.LookupPath(cue.ParsePath(RootDefinition)); def.Exists() {
		schema = def
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode card config: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema %s: %s", schemaName, strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

const builtinCardSchema = `
#SpeedRange: {
	from_value: number & >=0
	color:      string
	...
}

#WindSpeedEntity: {
	entity?:                  string
	name?:                    string
	use_statistics?:          bool
	attribute?:               string
	render_relative_scale?:   bool
	windspeed_bar_full?:      bool
	speed_unit?:              string
	output_speed_unit?:       string
	output_speed_unit_label?: string
	speed_range_beaufort?:    bool
	speed_range_step?:        number & >0
	speed_range_max?:         number & >0
	speed_ranges?: [...#SpeedRange]
	...
}

#CornerInfo: {
	label?:             string
	unit?:              string
	entity?:            string
	attribute?:         string
	precision?:         int & >=0
	input_speed_unit?:  string
	output_speed_unit?: string
	...
}

#WindRoseCard: {
	type?:          string
	title?:         string
	hours_to_show?: number & >0
	data_period?: {
		hours_to_show?:    number & >0
		from_hour_of_day?: int & >=0 & <=23
		time_interval?:    number & >=0
		...
	}
	refresh_interval?: number & >=0
	max_width?:        number & >=0
	wind_direction_entity?: string | {
		entity?:                 string
		use_statistics?:         bool
		attribute?:              string
		direction_compensation?: number
		...
	}
	windspeed_entities: [#WindSpeedEntity, ...#WindSpeedEntity]

	input_speed_unit?:        string
	output_speed_unit?:       string
	output_speed_unit_label?: string
	speed_range_beaufort?:    bool
	speed_range_step?:        number & >0
	speed_range_max?:         number & >0
	speed_ranges?: [...#SpeedRange]
	windspeed_bar_full?: bool

	windspeed_bar_location?:     "bottom" | "right"
	hide_windspeed_bar?:         bool
	center_calm_percentage?:     bool
	windrose_draw_north_offset?: number
	wind_direction_count?:       int & >=4 & <=32
	matching_strategy?:          "direction-first" | "speed-first" | "time-frame" | "full-time"
	direction_speed_time_diff?:  number & >=0

	cardinal_direction_letters?: string
	direction_labels?: {
		cardinal_direction_letters?: string
		custom_labels?: [...string]
		...
	}
	current_direction?: {
		show_arrow?:         bool
		arrow_size?:         number & >=0
		center_circle_size?: number & >=0
		...
	}
	compass_direction?: {
		auto_rotate?: bool
		entity?:      string
		attribute?:   string
		...
	}
	corner_info?: {
		top_left?:     #CornerInfo
		top_right?:    #CornerInfo
		bottom_left?:  #CornerInfo
		bottom_right?: #CornerInfo
		...
	}
	colors?: {[string]: string}
	background_image?: string
	log_level?:        string
	actions?: {...}
	...
}
`
