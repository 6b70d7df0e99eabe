package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// TestChurn registers and unregisters services while other workers stream
// the items of a required view.
func TestChurn(c Config) {

	if c.Base == "" {
		start, _ := CreateServer(&c)
		go start()
		time.Sleep(100 * time.Millisecond)
	}

	view := CreateView(c.Base, true, JSON{"bench": "churn"})

	// keep the view satisfied
	_, err := RegisterService(c.Base, JSON{"bench": "churn", "ranking": 1000})
	if err != nil {
		panic(err)
	}

	operations := c.N
	streamed := int64(0)
	unavailable := int64(0)
	stopReaders := make(chan struct{})

	readers := make(chan struct{})
	go func() {
		defer close(readers)
		Parallel(c.Workers/2+1, func() {
			for {
				select {
				case <-stopReaders:
					return
				default:
				}
				resp, err := Post(c.Base+"/v1/views/"+view+":items", JSON{})
				if err != nil {
					continue
				}
				if resp.StatusCode == http.StatusServiceUnavailable {
					atomic.AddInt64(&unavailable, 1)
				}
				scanner := bufio.NewScanner(resp.Body)
				for scanner.Scan() {
					atomic.AddInt64(&streamed, 1)
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		})
	}()

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for atomic.AddInt64(&operations, -1) >= 0 {
			id, err := RegisterService(c.Base, JSON{"bench": "churn"})
			if err != nil {
				continue
			}
			resp, err := Post(c.Base+"/v1/services/"+id+":unregister", nil)
			if err != nil {
				continue
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	})
	took := time.Since(t0)

	close(stopReaders)
	<-readers

	fmt.Println("churned:", c.N)
	fmt.Println("streamed items:", streamed)
	fmt.Println("unavailable:", unavailable)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f churns/sec\n", float64(c.N)/took.Seconds())
}
