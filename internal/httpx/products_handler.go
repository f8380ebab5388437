package httpx

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	kafkax "github.com/ariefcatur/go-catalog/internal/kafka"
)

const (
	maxBodyBytes = 1 << 20
	storeTimeout = 5 * time.Second
)

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type ProductsHandler struct {
	Store   catalog.Store
	Events  EventPublisher // nil disables product events
	Service string
	Log     zerolog.Logger

	// Debug mounts /debug/store reporting Backend.
	Debug   bool
	Backend string
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.listCategories)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.wrap(h.listProducts))
			r.Post("/", h.wrap(h.createProduct))
			r.Get("/{id}", h.wrap(h.getProduct))
			r.Put("/{id}", h.wrap(h.updateProduct))
			r.Delete("/{id}", h.wrap(h.deleteProduct))
			r.Get("/{id}/specifications", h.wrap(h.getSpecifications))
		})
		if h.Debug {
			r.Get("/debug/store", h.wrap(h.debugStore))
		}
	})
}

func (h *ProductsHandler) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Categories)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) error {
	var filter catalog.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := catalog.ParseCategory(raw)
		if !ok {
			return BadRequest("unknown category: " + raw)
		}
		filter = c
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	ps, err := h.Store.List(ctx)
	if err != nil {
		return err
	}
	if filter != "" {
		ps = catalog.FilterByCategory(ps, filter)
	}
	writeJSON(w, http.StatusOK, ps)
	return nil
}

func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) error {
	p, err := h.lookup(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

func (h *ProductsHandler) getSpecifications(w http.ResponseWriter, r *http.Request) error {
	p, err := h.lookup(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, catalog.ParseSpecifications(p.Specifications))
	return nil
}

func (h *ProductsHandler) lookup(r *http.Request) (catalog.Product, error) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	p, ok, err := h.Store.Get(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}
	if !ok {
		return catalog.Product{}, NotFound("Product not found")
	}
	return p, nil
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	in, err := catalog.DecodeNewProduct(body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	p, err := h.Store.Create(ctx, in)
	if err != nil {
		return err
	}
	h.publish(r, catalog.EventProductCreated, p.ID, p)
	writeJSON(w, http.StatusCreated, p)
	return nil
}

func (h *ProductsHandler) updateProduct(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	patch, err := catalog.DecodePatch(body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	p, ok, err := h.Store.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("Product not found")
	}
	if !patch.Empty() {
		h.publish(r, catalog.EventProductUpdated, p.ID, p)
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

func (h *ProductsHandler) deleteProduct(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	ok, err := h.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("Product not found")
	}
	h.publish(r, catalog.EventProductDeleted, id, catalog.ProductDeletedPayload{ID: id})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	return nil
}

func (h *ProductsHandler) debugStore(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	ps, err := h.Store.List(ctx)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"backend":  h.Backend,
		"count":    len(ps),
		"products": ps,
	})
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// publish emits a product event. Failures are logged and never reach the client.
func (h *ProductsHandler) publish(r *http.Request, eventType, productID string, payload any) {
	if h.Events == nil {
		return
	}
	env, err := catalog.NewEnvelope(eventType, h.Service, middleware.GetReqID(r.Context()), productID, payload)
	if err != nil {
		h.Log.Error().Err(err).Str("event_type", eventType).Str("product_id", productID).Msg("build event")
		return
	}
	h.Events.Publish(catalog.PartitionKey(productID), kafkax.MustMarshal(env), kafkax.EventHeaders(eventType, env.EventVersion)...)
}
