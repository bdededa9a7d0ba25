package emitter

import (
	"regexp"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
)

const (
	maxDatasetNameLen = 255
	maxFieldNameLen   = 255
	maxTagLen         = 100
	maxIdentifierLen  = 100
)

var (
	datasetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	fieldNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	tagPattern         = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)
	identifierPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// validateEmitInput enforces the length and character-class limits on every
// user-supplied string in an emission, plus the structural requirements
// (non-empty name/path/format/schema).
func validateEmitInput(in catalog.EmitInput) error {
	if err := validateDatasetName(in.Name); err != nil {
		return err
	}
	if in.Path == "" {
		return catalogerr.InvalidArgument("path is required")
	}
	if in.Format == "" {
		return catalogerr.InvalidArgument("format is required")
	}
	if len(in.Schema) == 0 {
		return catalogerr.InvalidArgument("schema must have at least one field")
	}
	for _, f := range in.Schema {
		if err := validateFieldName(f.Name); err != nil {
			return err
		}
		if f.DataType == "" {
			return catalogerr.InvalidArgument("field %q: data_type is required", f.Name)
		}
	}
	for _, t := range in.Tags {
		if err := validateTag(t); err != nil {
			return err
		}
	}
	for _, id := range []*string{in.Tenant, in.Domain, in.Owner} {
		if id != nil {
			if err := validateIdentifier(*id); err != nil {
				return err
			}
		}
	}
	if in.RowCount != nil && *in.RowCount < 0 {
		return catalogerr.InvalidArgument("row_count must be >= 0")
	}
	if in.SizeBytes != nil && *in.SizeBytes < 0 {
		return catalogerr.InvalidArgument("size_bytes must be >= 0")
	}
	return nil
}

func validateDatasetName(name string) error {
	if name == "" {
		return catalogerr.InvalidArgument("name is required")
	}
	if len(name) > maxDatasetNameLen {
		return catalogerr.InvalidArgument("name exceeds %d characters", maxDatasetNameLen)
	}
	if !datasetNamePattern.MatchString(name) {
		return catalogerr.InvalidArgument("name %q contains illegal characters", name)
	}
	if name[0] == '-' || name[len(name)-1] == '-' {
		return catalogerr.InvalidArgument("name %q may not start or end with a hyphen", name)
	}
	return nil
}

func validateFieldName(name string) error {
	if name == "" {
		return catalogerr.InvalidArgument("field name is required")
	}
	if len(name) > maxFieldNameLen {
		return catalogerr.InvalidArgument("field name exceeds %d characters", maxFieldNameLen)
	}
	if !fieldNamePattern.MatchString(name) {
		return catalogerr.InvalidArgument("field name %q contains illegal characters", name)
	}
	return nil
}

func validateTag(tag string) error {
	if tag == "" {
		return catalogerr.InvalidArgument("tag must not be empty")
	}
	if len(tag) > maxTagLen {
		return catalogerr.InvalidArgument("tag exceeds %d characters", maxTagLen)
	}
	if !tagPattern.MatchString(tag) {
		return catalogerr.InvalidArgument("tag %q contains illegal characters", tag)
	}
	return nil
}

func validateIdentifier(id string) error {
	if len(id) > maxIdentifierLen {
		return catalogerr.InvalidArgument("identifier exceeds %d characters", maxIdentifierLen)
	}
	if !identifierPattern.MatchString(id) {
		return catalogerr.InvalidArgument("identifier %q contains illegal characters", id)
	}
	return nil
}
