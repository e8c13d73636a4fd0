package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cachelab/ipvsim/cache"
)

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
		c *cache.Comp
	)

	BeforeEach(func() {
		m = NewMonitor()

		c = cache.MakeBuilder().
			WithWayAssociativity(2).
			WithCacheByteSize(2 * 64).
			Build("L1")
		m.RegisterCache(c)
	})

	It("should list registered components", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/list_components", nil)

		m.listComponents(w, r)

		Expect(w.Body.String()).To(Equal(`["L1"]`))
	})

	It("should report cache statistics", func() {
		c.Access(0x40)
		c.Access(0x40)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/stats/L1", nil)
		r = mux.SetURLVars(r, map[string]string{"name": "L1"})

		m.listStats(w, r)

		rsp := statsRsp{}
		err := json.Unmarshal(w.Body.Bytes(), &rsp)
		Expect(err).NotTo(HaveOccurred())
		Expect(rsp.NumAccess).To(Equal(uint64(2)))
		Expect(rsp.NumHit).To(Equal(uint64(1)))
		Expect(rsp.HitRate).To(BeNumerically("~", 0.5))
	})

	It("should return 404 for an unknown component", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/stats/L2", nil)
		r = mux.SetURLVars(r, map[string]string{"name": "L2"})

		m.listStats(w, r)

		Expect(w.Code).To(Equal(404))
	})
})
