package lint

import (
	"encoding/base64"
	"fmt"

	"github.com/skillsmith/skillsmith/pkg/skill"
)

const (
	// MaxTextFileBytes caps the byte length of an upserted text file.
	MaxTextFileBytes = 200 * 1024
	// MaxBinaryFileBytes caps the decoded length of an upserted binary file.
	MaxBinaryFileBytes = 2 * 1024 * 1024
)

// ValidateChangeSet gates an externally-produced change-set before anything
// trusts it: shape, the path gate for every operation, and per-file size
// ceilings. All violations are collected; nothing short-circuits.
func ValidateChangeSet(cs *skill.ChangeSet) Result {
	var errs []Error

	if cs.RecordPatch == nil {
		errs = append(errs, Error{Field: "record_patch", Message: "must be an object"})
	} else if _, err := cs.DecodeRecordPatch(); err != nil {
		errs = append(errs, Error{Field: "record_patch", Message: err.Error()})
	}

	if cs.FileOps == nil {
		errs = append(errs, Error{Field: "file_ops", Message: "must be a list"})
	}

	for i, op := range cs.FileOps {
		field := fmt.Sprintf("file_ops[%d]", i)
		errs = append(errs, checkFileOp(field, op)...)
	}

	return resultFrom(errs)
}

func checkFileOp(field string, op skill.FileOp) []Error {
	var errs []Error

	switch op.Op {
	case skill.FileOpUpsert, skill.FileOpDelete:
	default:
		errs = append(errs, Error{Field: field, Message: fmt.Sprintf("op must be %q or %q, got %q", skill.FileOpUpsert, skill.FileOpDelete, op.Op)})
	}

	for _, reason := range CheckPath(op.Path) {
		errs = append(errs, Error{Field: field + ".path", Message: fmt.Sprintf("%s: %s", op.Path, reason)})
	}

	hasText := op.TextContent != nil
	hasBinary := op.BinaryContentBase64 != nil

	switch op.Op {
	case skill.FileOpUpsert:
		if hasText == hasBinary {
			errs = append(errs, Error{Field: field, Message: "upsert requires exactly one of text_content or binary_content_base64"})
		}
		if hasText && len(*op.TextContent) > MaxTextFileBytes {
			errs = append(errs, Error{Field: field, Message: fmt.Sprintf("text content is %d bytes, limit is %d", len(*op.TextContent), MaxTextFileBytes)})
		}
		if hasBinary {
			decoded, err := base64.StdEncoding.DecodeString(*op.BinaryContentBase64)
			if err != nil {
				errs = append(errs, Error{Field: field, Message: "binary content is not valid base64"})
			} else if len(decoded) > MaxBinaryFileBytes {
				errs = append(errs, Error{Field: field, Message: fmt.Sprintf("binary content is %d bytes, limit is %d", len(decoded), MaxBinaryFileBytes)})
			}
		}
	case skill.FileOpDelete:
		if hasText || hasBinary {
			errs = append(errs, Error{Field: field, Message: "delete must not carry content"})
		}
	}

	return errs
}
