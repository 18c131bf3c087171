package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrySendAfterCloseReturnsFalse(t *testing.T) {
	c := &Client{send: make(chan []byte, 2)}

	assert.True(t, c.trySend([]byte("a")))

	c.closeSend()

	// Kapalı channel'a yazılmaz — panic yerine false
	assert.False(t, c.trySend([]byte("b")))

	// İkinci kapanış no-op
	c.closeSend()
}

func TestTrySendFullBufferReturnsFalse(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}

	assert.True(t, c.trySend([]byte("a")))
	assert.False(t, c.trySend([]byte("b")))
}

func TestTrySendRacesWithCloseSend(t *testing.T) {
	// Read goroutine heartbeat ack yazarken hub client'ı düşürebilir.
	// -race ile çalıştırıldığında yakalanacak panic/race burada yoktur.
	c := &Client{send: make(chan []byte, 4)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.trySend([]byte("x"))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.closeSend()
	}()

	wg.Wait()
	assert.False(t, c.trySend([]byte("y")))
}
