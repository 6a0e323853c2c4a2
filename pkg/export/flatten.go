package export

import (
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/mashery"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Computed columns
const (
	ColumnAPIDefinitionName = "APIDefinitionName"
	ColumnEndpointName      = "EndpointName"
	ColumnPackageName       = "packageName"
	ColumnOrganization      = "Organization"
	ColumnPlanName          = "planName"

	arrayFieldSeparator = ", "
)

type levelPrefixes struct {
	pkg, plan, svc, ep string
}

// Flattener - merges one package, plan, service and endpoint into a row
type Flattener struct {
	fields     *config.FieldsConfiguration
	unknownOrg string
	prefixes   levelPrefixes
}

// NewFlattener -
func NewFlattener(fields *config.FieldsConfiguration, mode config.ColumnMode, unknownOrg string) *Flattener {
	f := &Flattener{
		fields:     fields,
		unknownOrg: unknownOrg,
	}
	if mode == config.ColumnsNamespaced {
		f.prefixes = levelPrefixes{pkg: "package_", plan: "plan_", svc: "service_", ep: "endpoint_"}
	}
	return f
}

// Flatten - builds the row for ep. Picked fields missing from the source object are left out,
// array fields are always present.
func (f *Flattener) Flatten(pkg mashery.Package, plan mashery.Plan, svc mashery.Service, ep mashery.Endpoint) *Row {
	row := NewRow()
	row.Set(ColumnAPIDefinitionName, cellValue(svc.Raw.Get("name")))
	row.Set(ColumnEndpointName, cellValue(ep.Raw.Get("name")))

	pick(row, pkg.Raw, f.fields.Package, f.prefixes.pkg)
	row.Set(ColumnPackageName, cellValue(pkg.Raw.Get("name")))
	if truthy(pkg.OrganizationName) {
		row.Set(ColumnOrganization, cellValue(pkg.OrganizationName))
	} else {
		row.Set(ColumnOrganization, f.unknownOrg)
	}

	pick(row, plan.Raw, f.fields.Plan, f.prefixes.plan)
	row.Set(ColumnPlanName, cellValue(plan.Raw.Get("name")))

	pick(row, svc.Raw, f.fields.Service, f.prefixes.svc)
	pick(row, ep.Raw, f.fields.Endpoint, f.prefixes.ep)

	epAttrs := ep.Raw.Map()
	for _, field := range f.fields.Array {
		row.Set(field.Name, joinArrayField(epAttrs[field.Name], field.SubKey))
	}
	return row
}

func pick(row *Row, obj gjson.Result, fields []string, prefix string) {
	if !obj.IsObject() {
		return
	}
	attrs := obj.Map()
	for _, name := range fields {
		if v, ok := attrs[name]; ok {
			row.Set(prefix+name, cellValue(v))
		}
	}
}

func joinArrayField(value gjson.Result, subKey string) string {
	if !value.IsArray() {
		return ""
	}

	elems := value.Array()
	parts := make([]string, 0, len(elems))
	for _, elem := range elems {
		switch {
		case elem.IsArray():
			parts = append(parts, "")
		case elem.IsObject():
			attr := gjson.Result{}
			if subKey != "" {
				attr = elem.Map()[subKey]
			}
			if truthy(attr) {
				parts = append(parts, textValue(attr))
			} else {
				parts = append(parts, "")
			}
		default:
			parts = append(parts, textValue(elem))
		}
	}
	return strings.Join(parts, arrayFieldSeparator)
}

// cellValue converts a JSON value to a typed cell
func cellValue(v gjson.Result) interface{} {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		return v.Str
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			return v.Num
		}
		if d.IsInteger() {
			if i := d.IntPart(); decimal.NewFromInt(i).Equal(d) {
				return i
			}
			// beyond int64, keep every digit
			return d.String()
		}
		return v.Num
	default:
		return v.Raw
	}
}

// textValue is the string form of a JSON value inside a joined cell
func textValue(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.Number:
		if d, err := decimal.NewFromString(v.Raw); err == nil {
			return d.String()
		}
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return v.Raw
	}
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
