package registry

import (
	"github.com/dataloom/dataloom/pkg/nodes/apireader"
	"github.com/dataloom/dataloom/pkg/nodes/filereader"
	"github.com/dataloom/dataloom/pkg/nodes/filewriter"
	"github.com/dataloom/dataloom/pkg/nodes/filter"
	"github.com/dataloom/dataloom/pkg/nodes/flatten"
	"github.com/dataloom/dataloom/pkg/nodes/merge"
	"github.com/dataloom/dataloom/pkg/nodes/redissink"
	"github.com/dataloom/dataloom/pkg/nodes/sqlreader"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes() {
	// Sources
	r.RegisterNode(sqlreader.NewSQLReaderNodeFactory())
	r.RegisterNode(filereader.NewFileReaderNodeFactory())
	r.RegisterNode(apireader.NewAPIReaderNodeFactory())

	// Transforms
	r.RegisterNode(filter.NewFilterNodeFactory())
	r.RegisterNode(merge.NewMergeNodeFactory())
	r.RegisterNode(flatten.NewFlattenNodeFactory())

	// Sinks
	r.RegisterNode(filewriter.NewFileWriterNodeFactory())
	r.RegisterNode(redissink.NewRedisSinkNodeFactory())
}
