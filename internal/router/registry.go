package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Module is a feature slice of the catalog API mounted under the registry's base group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects shared middleware and modules, then mounts them in order.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
	Logger logrus.FieldLogger

	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine, basePath string, logger logrus.FieldLogger) *Registry {
	return &Registry{Engine: engine, API: engine.Group(basePath), Logger: logger}
}

// Use appends middleware run by every module route. It must be called before RegisterAll.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.shared = append(r.shared, mw...)
}

func (r *Registry) Add(mod Module) {
	if mod != nil {
		r.modules = append(r.modules, mod)
	}
}

// RegisterAll mounts the modules and reports the resulting route table.
func (r *Registry) RegisterAll() {
	if len(r.shared) > 0 {
		r.API.Use(r.shared...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	if r.Logger == nil {
		return
	}
	for _, ri := range r.Engine.Routes() {
		r.Logger.WithFields(logrus.Fields{"method": ri.Method, "path": ri.Path}).Debug("route registered")
	}
	r.Logger.WithField("routes", len(r.Engine.Routes())).Info("catalog api mounted")
}
