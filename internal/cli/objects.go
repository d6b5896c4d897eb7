package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/query"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

// objectRef identifies an object in JSON output.
type objectRef struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Shortname string `json:"shortname"`
	Name      string `json:"name,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// objectData is an object with its effective attributes.
type objectData struct {
	objectRef
	Register   string            `json:"register"`
	Attributes map[string]string `json:"attributes"`
	Defined    map[string]string `json:"defined,omitempty"`
	Inherited  map[string]string `json:"inherited,omitempty"`
	Pending    map[string]string `json:"pending,omitempty"`
}

func refOf(o *model.Object) objectRef {
	return objectRef{
		ID:        o.ID(),
		Type:      string(o.Type()),
		Shortname: o.Shortname(),
		Name:      o.Value(model.FieldName),
		Filename:  o.Meta().Filename,
	}
}

func refsOf(objs []*model.Object) []objectRef {
	out := make([]objectRef, 0, len(objs))
	for _, o := range objs {
		out = append(out, refOf(o))
	}
	return out
}

func dataOf(o *model.Object, layers bool) objectData {
	d := objectData{
		objectRef:  refOf(o),
		Register:   o.Value(model.FieldRegister),
		Attributes: make(map[string]string),
	}
	for _, k := range o.Keys() {
		if k == string(model.FieldMeta) {
			continue
		}
		d.Attributes[k] = o.Value(model.Field(k))
	}
	if layers {
		d.Defined = o.Meta().Defined
		d.Inherited = o.Meta().Inherited
		if o.IsDirty() {
			d.Pending = o.Changes()
		}
	}
	return d
}

// parseType validates a type argument, reporting TYPE_INVALID.
func parseType(arg string) (model.ObjectType, error) {
	t, err := model.ParseObjectType(arg)
	if err != nil {
		return "", handleError(ErrTypeInvalid, err, "Types: "+typeNames())
	}
	return t, nil
}

func typeNames() string {
	names := make([]string, 0, len(model.AllTypes))
	for _, t := range model.AllTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// findObject looks ref up as a shortname, then as an id.
func findObject(reg *model.Registry, t model.ObjectType, ref string) (*model.Object, error) {
	coll := reg.Objects(t)
	obj, err := coll.GetByShortname(ref)
	if err == nil || !errors.Is(err, model.ErrNotFound) {
		return obj, err
	}
	if byID, idErr := coll.GetByID(ref); idErr == nil {
		return byID, nil
	}
	return nil, err
}

// displayName renders an object for text output.
func displayName(o *model.Object) string {
	return ui.ObjectRef(string(o.Type()), o.Shortname(), o.Value(model.FieldName))
}

// printObjectTable prints one row per object.
func printObjectTable(objs []*model.Object) {
	display := ui.NewDisplayContext()
	table := ui.NewTable(display, "TYPE", "NAME", "USE", "FILE").MuteColumn(3)
	for _, o := range objs {
		name := o.Shortname()
		if name == "" || name == "/" {
			name = o.Value(model.FieldName) + " (template)"
		}
		table.AddRow(string(o.Type()), name, o.Value(model.FieldUse), o.Meta().Filename)
	}
	if table.Len() > 0 {
		fmt.Print(table.String())
	}
}

var listCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List every object of a type",
	Long: `List every object of one type, templates included.

Examples:
  nagmodel list host
  nagmodel list service --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		return withSession(func(s *session) error {
			objs, err := s.registry.Objects(t).All()
			if err != nil {
				return handleModelError(err)
			}
			if isJSONOutput() {
				items := make([]objectData, 0, len(objs))
				for _, o := range objs {
					items = append(items, dataOf(o, false))
				}
				outputSuccess(map[string]interface{}{"type": t, "items": items}, s.meta(len(objs)))
				return nil
			}
			if len(objs) == 0 {
				fmt.Println(ui.Hint(fmt.Sprintf("No %s definitions.", t)))
				return nil
			}
			printObjectTable(objs)
			fmt.Println(ui.Hint(ui.Count(len(objs), "object", "objects")))
			return nil
		})
	},
}

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <type> <shortname|id>",
	Short: "Show one object with defined and inherited attributes",
	Long: `Show one object. Each attribute is listed with where its value comes
from: written on the object ("defined") or flattened from a template
("inherited").

Services are addressed as host_name/service_description.

Examples:
  nagmodel show host web01
  nagmodel show service web01/PING
  nagmodel show host web01 --raw`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		return withSession(func(s *session) error {
			obj, err := findObject(s.registry, t, args[1])
			if err != nil {
				return handleModelError(err)
			}
			if isJSONOutput() {
				outputSuccess(dataOf(obj, true), s.meta(0))
				return nil
			}
			if showRaw {
				fmt.Print(obj.String())
				return nil
			}
			return renderObject(obj)
		})
	},
}

func renderObject(obj *model.Object) error {
	var rows []ui.AttributeRow
	for _, tuple := range obj.AttributeTuples() {
		if tuple.Name == string(model.FieldMeta) {
			continue
		}
		row := ui.AttributeRow{Name: tuple.Name, Value: obj.Value(model.Field(tuple.Name))}
		switch {
		case tuple.Defined != nil:
			row.Source = "defined"
		case tuple.Inherited != nil:
			row.Source = "inherited"
		default:
			row.Source = "pending"
		}
		rows = append(rows, row)
	}
	rows = append(rows,
		ui.AttributeRow{Name: "id", Value: obj.ID(), Source: "meta"},
		ui.AttributeRow{Name: "filename", Value: obj.Meta().Filename, Source: "meta"},
	)

	title := fmt.Sprintf("%s %s", obj.Type(), obj.Shortname())
	if name := obj.Value(model.FieldName); obj.Shortname() == "" && name != "" {
		title = fmt.Sprintf("%s template %s", obj.Type(), name)
	}
	md := ui.DefinitionMarkdown(title, rows, obj.Meta().RawDefinition)

	display := ui.NewDisplayContext()
	if !display.IsTTY {
		fmt.Print(md)
		return nil
	}
	out, err := ui.RenderMarkdown(md, display.TermWidth)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	fmt.Print(out)
	return nil
}

var filterAbsent []string

var filterCmd = &cobra.Command{
	Use:   "filter <type> [field[__op]=value...]",
	Short: "Find objects matching attribute predicates",
	Long: `Filter objects of one type. Predicates are combined with AND.

Operators are appended to the field name:
  field=value               exact match
  field__startswith=value   prefix
  field__endswith=value     suffix
  field__contains=value     substring
  field__notcontains=value  no substring
  field__isnot=value        not equal
  field__has_field=value    value is an item of a comma list

register=1 also matches objects that do not set register. Use --absent
to match objects that lack a field entirely.

Examples:
  nagmodel filter host address__startswith=10.0.
  nagmodel filter service host_name=web01 check_command__contains=http
  nagmodel filter host --absent address`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		preds, err := query.ParseAll(args[1:], filterAbsent)
		if err != nil {
			return handleModelError(err)
		}
		return withSession(func(s *session) error {
			objs, err := s.registry.Objects(t).Filter(preds...)
			if err != nil {
				return handleModelError(err)
			}
			if isJSONOutput() {
				exprs := make([]string, 0, len(preds))
				for _, p := range preds {
					exprs = append(exprs, p.String())
				}
				items := make([]objectData, 0, len(objs))
				for _, o := range objs {
					items = append(items, dataOf(o, false))
				}
				outputSuccess(map[string]interface{}{
					"type":   t,
					"filter": exprs,
					"items":  items,
				}, s.meta(len(objs)))
				return nil
			}
			if len(objs) == 0 {
				fmt.Println(ui.Hint("No matching objects."))
				return nil
			}
			printObjectTable(objs)
			fmt.Println(ui.Hint(ui.Count(len(objs), "match", "matches")))
			return nil
		})
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the object as a define block")
	filterCmd.Flags().StringArrayVar(&filterAbsent, "absent", nil, "Match objects without this field (repeatable)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(filterCmd)
}
