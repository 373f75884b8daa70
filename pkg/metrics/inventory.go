package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics counts inventory mutations by the change action they
// produced and image uploads by outcome.
type InventoryMetrics struct {
	mutations *prometheus.CounterVec
	uploads   *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Inventory mutations recorded, labelled by change action.",
	}, []string{"action"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_uploads_total",
		Help: "Product image uploads, labelled by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, uploads)
	return &InventoryMetrics{
		mutations: mutations,
		uploads:   uploads,
	}
}

// IncMutation increments the mutation counter for the given action.
func (m *InventoryMetrics) IncMutation(action string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncUpload increments the upload counter for the given outcome.
func (m *InventoryMetrics) IncUpload(outcome string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(outcome)).Inc()
}
