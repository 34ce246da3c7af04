package app

import (
	"github.com/vk/pipewright/internal/registry"
	"github.com/vk/pipewright/modules/archive"
	"github.com/vk/pipewright/modules/fetch"
	"github.com/vk/pipewright/modules/textkit"
)

// coreModules is the definitive list of all job-kind modules that are
// compiled into the pipewright binary.
var coreModules = []registry.Module{
	&archive.Module{},
	&fetch.Module{},
	&textkit.Module{},
}
