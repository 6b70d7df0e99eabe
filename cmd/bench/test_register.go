package main

import (
	"fmt"
	"sync/atomic"
	"time"
)

func TestRegister(c Config) {

	if c.Base == "" {
		start, _ := CreateServer(&c)
		go start()
		time.Sleep(100 * time.Millisecond)
	}

	view := CreateView(c.Base, false, JSON{"bench": "register"})

	items := c.N
	errors := int64(0)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(time.Second):
				fmt.Println("pending:", atomic.LoadInt64(&items))
			}
		}
	}()

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				break
			}
			_, err := RegisterService(c.Base, JSON{
				"bench":   "register",
				"n":       n,
				"ranking": n % 100,
			})
			if err != nil {
				atomic.AddInt64(&errors, 1)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("view:", view)
	fmt.Println("sent:", c.N)
	fmt.Println("errors:", errors)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f registrations/sec\n", float64(c.N)/took.Seconds())
}
