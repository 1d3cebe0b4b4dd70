package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Parameter describes one argument of a canonical method.
type Parameter struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"required"`
	Default     json.RawMessage `json:"default,omitempty"`
}

// MethodInfo describes one exported method of a wrapped value.
type MethodInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Canonical   bool        `json:"canonical"`
	Parameters  []Parameter `json:"parameters,omitempty"`

	// InputSchema is the synthesized JSON schema for the method's argument
	// struct, or a permissive object schema for non-canonical methods.
	InputSchema *jsonschema.Schema `json:"-"`

	method   reflect.Value
	argsType reflect.Type
	resolved *jsonschema.Resolved
}

// Adapter wraps an arbitrary value and exposes its canonical methods for
// dynamic invocation.
type Adapter struct {
	target   any
	metadata Metadata
	methods  map[string]*MethodInfo
	order    []string
}

// Option adjusts adapter construction.
type Option func(*options)

type options struct {
	overrides  *Metadata
	methodDocs map[string]string
}

// WithMetadata overlays metadata overrides on the type-derived defaults.
func WithMetadata(m Metadata) Option {
	return func(o *options) { o.overrides = &m }
}

// WithMethodDocs attaches descriptions to methods by name. Keywords are
// extracted from these docs when the metadata carries none.
func WithMethodDocs(docs map[string]string) Option {
	return func(o *options) { o.methodDocs = docs }
}

// New builds an adapter around target, enumerating its exported methods.
func New(target any, opts ...Option) (*Adapter, error) {
	if target == nil {
		return nil, fmt.Errorf("adapter target is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	v := reflect.ValueOf(target)
	t := v.Type()
	typeName := t.Name()
	if t.Kind() == reflect.Pointer {
		typeName = t.Elem().Name()
	}

	a := &Adapter{
		target:  target,
		methods: make(map[string]*MethodInfo),
	}

	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !m.IsExported() {
			continue
		}
		info, err := describeMethod(m.Name, v.Method(i), o.methodDocs[m.Name])
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		a.methods[m.Name] = info
		a.order = append(a.order, m.Name)
	}
	sort.Strings(a.order)

	meta := defaultMetadata(typeName).merge(o.overrides)
	if len(meta.Keywords) <= 1 && len(o.methodDocs) > 0 {
		var docText bytes.Buffer
		for _, doc := range o.methodDocs {
			docText.WriteString(doc)
			docText.WriteString(" ")
		}
		if extracted := ExtractKeywords(docText.String(), 5); len(extracted) > 0 {
			meta.Keywords = append(meta.Keywords, extracted...)
		}
	}
	a.metadata = meta

	return a, nil
}

// describeMethod classifies a method and synthesizes its input schema.
// Canonical shapes are func(ctx, ArgsStruct) (T, error) and
// func(ctx) (T, error); everything else is listed with a permissive schema.
func describeMethod(name string, method reflect.Value, doc string) (*MethodInfo, error) {
	info := &MethodInfo{
		Name:        name,
		Description: doc,
		method:      method,
	}

	mt := method.Type()
	canonical := mt.NumOut() == 2 &&
		mt.Out(1) == errorType &&
		!mt.IsVariadic() &&
		mt.NumIn() >= 1 && mt.NumIn() <= 2 &&
		mt.In(0) == contextType
	if canonical && mt.NumIn() == 2 && mt.In(1).Kind() != reflect.Struct {
		canonical = false
	}

	if !canonical {
		info.InputSchema = &jsonschema.Schema{Type: "object"}
		return info, nil
	}

	info.Canonical = true

	if mt.NumIn() == 1 {
		info.InputSchema = &jsonschema.Schema{
			Title: name + "Input",
			Type:  "object",
		}
		return info, nil
	}

	info.argsType = mt.In(1)
	schema, err := jsonschema.ForType(info.argsType, nil)
	if err != nil {
		return nil, fmt.Errorf("synthesizing schema: %w", err)
	}
	schema.Title = name + "Input"

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return nil, fmt.Errorf("resolving schema: %w", err)
	}
	info.InputSchema = schema
	info.resolved = resolved
	info.Parameters = parameterTable(info.argsType, schema)

	return info, nil
}

// parameterTable derives an ordered parameter list from the args struct,
// taking names from json tags and required/default/description from the
// synthesized schema.
func parameterTable(argsType reflect.Type, schema *jsonschema.Schema) []Parameter {
	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	var params []Parameter
	for i := 0; i < argsType.NumField(); i++ {
		f := argsType.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		if name == "" {
			continue
		}

		p := Parameter{
			Name:     name,
			Type:     f.Type.String(),
			Required: required[name],
		}
		if prop, ok := schema.Properties[name]; ok && prop != nil {
			p.Description = prop.Description
			p.Default = prop.Default
		}
		params = append(params, p)
	}
	return params
}

func jsonFieldName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name
	}
	if tag == "-" {
		return ""
	}
	if idx := bytes.IndexByte([]byte(tag), ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

// Metadata returns the adapter's metadata.
func (a *Adapter) Metadata() Metadata {
	return a.metadata
}

// Methods returns method descriptions in stable name order.
func (a *Adapter) Methods() []*MethodInfo {
	infos := make([]*MethodInfo, 0, len(a.order))
	for _, name := range a.order {
		infos = append(infos, a.methods[name])
	}
	return infos
}

// Method returns the description of a single method.
func (a *Adapter) Method(name string) (*MethodInfo, bool) {
	info, ok := a.methods[name]
	return info, ok
}

// Call invokes a canonical method dynamically. rawArgs is decoded into the
// method's argument struct with unknown fields rejected, defaults applied
// and the result validated against the synthesized schema. The method's
// return value is JSON-encoded.
func (a *Adapter) Call(ctx context.Context, method string, rawArgs json.RawMessage) (json.RawMessage, error) {
	info, ok := a.methods[method]
	if !ok {
		return nil, fmt.Errorf("adapter %s has no method %s", a.metadata.Name, method)
	}
	if !info.Canonical {
		return nil, fmt.Errorf("method %s does not have a dynamically invocable signature", method)
	}

	in := []reflect.Value{reflect.ValueOf(ctx)}

	if info.argsType != nil {
		if len(rawArgs) == 0 {
			rawArgs = json.RawMessage("{}")
		}

		// Defaults and validation run on the generic object form; the
		// resolved schema does not accept Go struct instances.
		var instance map[string]any
		if err := json.Unmarshal(rawArgs, &instance); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", method, err)
		}
		if instance == nil {
			instance = map[string]any{}
		}
		if info.resolved != nil {
			if err := info.resolved.ApplyDefaults(&instance); err != nil {
				return nil, fmt.Errorf("applying defaults for %s: %w", method, err)
			}
			if err := info.resolved.Validate(instance); err != nil {
				return nil, fmt.Errorf("arguments for %s failed validation: %w", method, err)
			}
		}

		normalized, err := json.Marshal(instance)
		if err != nil {
			return nil, fmt.Errorf("encoding arguments for %s: %w", method, err)
		}

		argsPtr := reflect.New(info.argsType)
		dec := json.NewDecoder(bytes.NewReader(normalized))
		dec.DisallowUnknownFields()
		if err := dec.Decode(argsPtr.Interface()); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", method, err)
		}
		in = append(in, argsPtr.Elem())
	}

	out := info.method.Call(in)
	if errVal := out[1]; !errVal.IsNil() {
		return nil, errVal.Interface().(error)
	}

	encoded, err := json.Marshal(out[0].Interface())
	if err != nil {
		return nil, fmt.Errorf("encoding result of %s: %w", method, err)
	}
	return encoded, nil
}
