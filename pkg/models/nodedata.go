package models

// DataType discriminates the payload carried by a NodeData envelope.
type DataType string

const (
	DataTypeMySQL        DataType = "mysql"
	DataTypeMongo        DataType = "mongo"
	DataTypeFile         DataType = "file"
	DataTypeAPI          DataType = "api"
	DataTypeTabular      DataType = "tabular"
	DataTypeColumnarFile DataType = "columnar-file"
)

// NodeData is the typed envelope exchanged between node ports. Exactly one of
// Data and DataExample is populated: Data after a full run, DataExample after
// a sample run. Consumers must not assume both are present.
type NodeData struct {
	Type        DataType       `json:"type"`
	Name        string         `json:"name"`
	Schema      map[string]any `json:"schema,omitempty"`
	Data        any            `json:"data,omitempty"`
	DataExample any            `json:"dataExample,omitempty"`
}

// EmptyData is the sentinel returned by an output port that never produced a
// value.
var EmptyData = &NodeData{}

// NewTabular builds a tabular envelope, storing rows in the preview slot when
// sample is set and in the full payload slot otherwise.
func NewTabular(name string, schema map[string]any, rows []map[string]any, sample bool) *NodeData {
	d := &NodeData{
		Type:   DataTypeTabular,
		Name:   name,
		Schema: schema,
	}

	if sample {
		d.DataExample = rows
	} else {
		d.Data = rows
	}

	return d
}

// IsEmpty reports whether the envelope carries no payload at all.
func (d *NodeData) IsEmpty() bool {
	return d == nil || (d.Data == nil && d.DataExample == nil)
}

// Payload returns whichever of the full payload or the bounded preview is
// populated.
func (d *NodeData) Payload() any {
	if d == nil {
		return nil
	}

	if d.Data != nil {
		return d.Data
	}

	return d.DataExample
}

// Rows casts the populated payload to a row slice. It returns false when the
// envelope is empty or carries a non-tabular payload.
func (d *NodeData) Rows() ([]map[string]any, bool) {
	rows, ok := d.Payload().([]map[string]any)

	return rows, ok
}
