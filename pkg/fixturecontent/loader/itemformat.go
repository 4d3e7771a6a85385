package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

const (
	itemMarker    = "----item----"
	fieldMarker   = "----field----"
	versionMarker = "----version----"
)

// itemReader reads one item in the serialized item text format: a header
// block, shared field blocks, then version blocks each followed by their
// field blocks. Field content is content-length characters long.
type itemReader struct {
	r    *bufio.Reader
	line int
}

// ParseItem reads a serialized item.
func ParseItem(r io.Reader) (*fixturecontent.ItemRecord, error) {
	ir := &itemReader{r: bufio.NewReader(r)}
	return ir.readItem()
}

func (ir *itemReader) readItem() (*fixturecontent.ItemRecord, error) {
	marker, err := ir.nextMarker()
	if errors.Is(err, io.EOF) {
		return nil, ir.errorf("empty item")
	}
	if err != nil {
		return nil, err
	}
	if marker != itemMarker {
		return nil, ir.errorf("expected %s, found %q", itemMarker, marker)
	}
	headers, err := ir.readHeaders()
	if err != nil {
		return nil, err
	}
	record := &fixturecontent.ItemRecord{
		ID:           headers["id"],
		Name:         headers["name"],
		ParentID:     headers["parent"],
		TemplateID:   headers["template"],
		MasterID:     headers["master"],
		BranchID:     headers["branch"],
		TemplateName: headers["templatekey"],
		DatabaseName: headers["database"],
		Path:         headers["path"],
		Versions:     []fixturecontent.VersionRecord{},
	}
	if record.ID == "" {
		return nil, ir.errorf("item has no id")
	}

	current := -1
	for {
		marker, err := ir.nextMarker()
		if errors.Is(err, io.EOF) {
			return record, nil
		}
		if err != nil {
			return nil, err
		}
		switch marker {
		case fieldMarker:
			field, err := ir.readField()
			if err != nil {
				return nil, err
			}
			if current < 0 {
				record.SharedFields = append(record.SharedFields, field)
			} else {
				record.Versions[current].Fields = append(record.Versions[current].Fields, field)
			}
		case versionMarker:
			headers, err := ir.readHeaders()
			if err != nil {
				return nil, err
			}
			record.Versions = append(record.Versions, fixturecontent.VersionRecord{
				Language: headers["language"],
				Number:   headers["version"],
				Revision: headers["revision"],
			})
			current = len(record.Versions) - 1
		default:
			return nil, ir.errorf("unexpected block %q", marker)
		}
	}
}

func (ir *itemReader) readField() (fixturecontent.FieldRecord, error) {
	headers, err := ir.readHeaders()
	if err != nil {
		return fixturecontent.FieldRecord{}, err
	}
	field := fixturecontent.FieldRecord{
		FieldID: headers["field"],
		Name:    headers["name"],
		Key:     headers["key"],
	}
	raw, ok := headers["content-length"]
	if !ok {
		return field, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return field, ir.errorf("invalid content-length %q", raw)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		r, _, err := ir.r.ReadRune()
		if err != nil {
			return field, ir.errorf("field %s: content shorter than %d characters", field.FieldID, n)
		}
		if r == '\n' {
			ir.line++
		}
		b.WriteRune(r)
	}
	field.Value = b.String()
	field.IsSet = true
	return field, nil
}

// nextMarker skips blank lines and returns the next line.
func (ir *itemReader) nextMarker() (string, error) {
	for {
		line, err := ir.readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
	}
}

// readHeaders reads "key: value" lines up to the next blank line.
func (ir *itemReader) readHeaders() (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := ir.readLine()
		if errors.Is(err, io.EOF) {
			return headers, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return headers, nil
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, ir.errorf("malformed header %q", line)
		}
		headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
}

func (ir *itemReader) readLine() (string, error) {
	line, err := ir.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	ir.line++
	return strings.TrimRight(line, "\r\n"), nil
}

func (ir *itemReader) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s: %w", ir.line, fmt.Sprintf(format, args...), fixturecontent.ErrMalformedRecord)
}
