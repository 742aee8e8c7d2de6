package debugui

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orbshot/ecs"
)

// ComponentInspector renders the components of one entity. Numeric and bool
// fields are editable in place.
type ComponentInspector struct{}

func (ci *ComponentInspector) Render(storage *ecs.Storage, id ecs.EntityId) {
	if id == 0 {
		imgui.Text("No entity selected")
		return
	}
	archetype := storage.ArchetypeOf(id)
	if archetype == nil {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", id))
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", archetype.ID()))
	for _, compType := range archetype.Types() {
		component := storage.GetComponent(id, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			renderStruct(reflect.ValueOf(component).Elem(), compType.String())
			imgui.TreePop()
		}
	}
}

func renderStruct(val reflect.Value, idPrefix string) {
	for _, field := range fieldsOf(val.Type()) {
		renderField(field.Name, val.Field(field.Index), idPrefix+"."+field.Name)
	}
}

func renderField(name string, val reflect.Value, id string) {
	label := fmt.Sprintf("%s##%s", name, id)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && val.CanSet() && !val.OverflowInt(int64(v)) {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && val.CanSet() && v >= 0 && !val.OverflowUint(uint64(v)) {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(label, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(label) {
			renderStruct(val, id)
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Map:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

type fieldInfo struct {
	Name  string
	Index int
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

// fieldsOf returns the exported fields of a struct type, cached per type.
func fieldsOf(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, fieldInfo{Name: field.Name, Index: i})
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]fieldInfo)
}
