package ids_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-core/pkg/ids"
)

func TestNew_PrefijoYLongitud(t *testing.T) {
	id := ids.New(ids.PrefixStockReception)
	require.True(t, strings.HasPrefix(id, "SR-"))
	assert.Len(t, strings.TrimPrefix(id, "SR-"), 26, "un ULID tiene 26 caracteres")
}

func TestNew_SinColisionesConcurrentes(t *testing.T) {
	const n = 2000
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := ids.New(ids.PrefixInventoryLog)
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}
