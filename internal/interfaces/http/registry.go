package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type route struct {
	method   string
	path     string
	handlers []fiber.Handler
}

// Registry acumula rutas y detecta colisiones método+path en el arranque.
// Registrar dos veces la misma ruta es un bug de cableado: preferimos un
// panic al iniciar antes que un handler pisado en producción.
type Registry struct {
	prefix string
	seen   map[string]struct{}
	routes []route
}

func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix, seen: make(map[string]struct{})}
}

// Add registra una ruta. Panic si método+path ya fue registrado.
func (r *Registry) Add(method, path string, handlers ...fiber.Handler) {
	key := method + " " + r.prefix + path
	if _, dup := r.seen[key]; dup {
		panic(fmt.Sprintf("ruta duplicada: %s", key))
	}
	r.seen[key] = struct{}{}
	r.routes = append(r.routes, route{method: method, path: path, handlers: handlers})
}

func (r *Registry) Get(path string, handlers ...fiber.Handler)    { r.Add(fiber.MethodGet, path, handlers...) }
func (r *Registry) Post(path string, handlers ...fiber.Handler)   { r.Add(fiber.MethodPost, path, handlers...) }
func (r *Registry) Put(path string, handlers ...fiber.Handler)    { r.Add(fiber.MethodPut, path, handlers...) }
func (r *Registry) Patch(path string, handlers ...fiber.Handler)  { r.Add(fiber.MethodPatch, path, handlers...) }
func (r *Registry) Delete(path string, handlers ...fiber.Handler) { r.Add(fiber.MethodDelete, path, handlers...) }

// Mount vuelca las rutas acumuladas sobre el router de Fiber.
func (r *Registry) Mount(router fiber.Router) {
	for _, rt := range r.routes {
		router.Add(rt.method, rt.path, rt.handlers...)
	}
}
