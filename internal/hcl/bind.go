package hcl

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/param"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// jobSchema admits the specification-level attributes of a job block plus
// the arguments block that binds the kind's declared parameters.
var jobSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "dir"},
		{Name: "temp_dir"},
		{Name: "name"},
		{Name: "name_prefix"},
		{Name: "queue"},
		{Name: "project"},
		{Name: "memory_gb"},
		{Name: "stdout"},
		{Name: "stderr"},
		{Name: "extra_deps"},
		{Name: "ignore_upstream_failures"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arguments"},
	},
}

// decodeJob instantiates the kind and populates the instance from the job
// block: specification attributes first, then the arguments block through
// the kind's parameter descriptors.
func (l *Loader) decodeJob(kindName, label string, body hcl.Body) (jobspec.Job, error) {
	job, err := l.reg.New(kindName)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w (registered kinds: %s)", label, err, strings.Join(l.reg.Kinds(), ", "))
	}

	content, diags := body.Content(jobSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("job %q %q: %w", kindName, label, diags)
	}

	if err := decodeSpecAttributes(job.JobSpec(), content.Attributes); err != nil {
		return nil, fmt.Errorf("job %q %q: %w", kindName, label, err)
	}

	var argsBody hcl.Body
	for _, block := range content.Blocks {
		if argsBody != nil {
			return nil, fmt.Errorf("job %q %q: duplicate arguments block", kindName, label)
		}
		argsBody = block.Body
	}
	if argsBody != nil {
		if err := l.bindArguments(kindName, job, argsBody); err != nil {
			return nil, fmt.Errorf("job %q %q: %w", kindName, label, err)
		}
	}
	return job, nil
}

func decodeSpecAttributes(s *jobspec.Spec, attrs hcl.Attributes) error {
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("attribute %q: %w", name, diags)
		}

		var err error
		switch name {
		case "dir":
			err = asString(val, &s.Dir)
		case "temp_dir":
			err = asString(val, &s.TempDir)
		case "name":
			err = asString(val, &s.Name)
		case "name_prefix":
			err = asString(val, &s.NamePrefix)
		case "queue":
			err = asString(val, &s.Queue)
		case "project":
			err = asString(val, &s.Project)
		case "memory_gb":
			err = asGo(val, cty.Number, &s.MemoryGB)
		case "stdout":
			err = asRef(val, &s.Stdout)
		case "stderr":
			err = asRef(val, &s.Stderr)
		case "extra_deps":
			err = asRefList(val, &s.ExtraDeps)
		case "ignore_upstream_failures":
			err = asGo(val, cty.Bool, &s.IgnoreUpstreamFailures)
		}
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
	}
	return nil
}

// bindArguments evaluates each argument expression and writes it through
// the matching descriptor's access path, converting to the field's implied
// cty type on the way. Unknown names are errors listing the kind's declared
// parameters.
func (l *Loader) bindArguments(kindName string, job jobspec.Job, body hcl.Body) error {
	descs, err := l.reg.Descriptors(kindName)
	if err != nil {
		return err
	}
	byName := make(map[string]*param.Descriptor, len(descs))
	declared := make([]string, 0, len(descs))
	for i := range descs {
		byName[descs[i].Name] = &descs[i]
		declared = append(declared, descs[i].Name)
	}
	sort.Strings(declared)

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("decoding arguments block: %w", diags)
	}

	// Attribute maps carry no order; bind deterministically.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown argument %q; kind %q declares: %s", name, kindName, strings.Join(declared, ", "))
		}
		val, valDiags := attrs[name].Expr.Value(nil)
		if valDiags.HasErrors() {
			return fmt.Errorf("argument %q: %w", name, valDiags)
		}
		if err := bindArgument(job, d, val); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}
	return nil
}

func bindArgument(job jobspec.Job, d *param.Descriptor, val cty.Value) error {
	target, err := d.Addr(job)
	if err != nil {
		return err
	}
	want, err := gocty.ImpliedType(reflect.New(d.FieldType()).Elem().Interface())
	if err != nil {
		return fmt.Errorf("parameter type %s has no HCL representation: %w", d.FieldType(), err)
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}

func asString(val cty.Value, target *string) error {
	return asGo(val, cty.String, target)
}

func asRef(val cty.Value, target *fileref.Ref) error {
	var s string
	if err := asGo(val, cty.String, &s); err != nil {
		return err
	}
	*target = fileref.Ref(s)
	return nil
}

func asRefList(val cty.Value, target *[]fileref.Ref) error {
	var paths []string
	if err := asGo(val, cty.List(cty.String), &paths); err != nil {
		return err
	}
	refs := make([]fileref.Ref, len(paths))
	for i, p := range paths {
		refs[i] = fileref.Ref(p)
	}
	*target = refs
	return nil
}

func asGo(val cty.Value, want cty.Type, target any) error {
	converted, err := convert.Convert(val, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}
