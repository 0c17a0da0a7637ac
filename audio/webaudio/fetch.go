//go:build js
// +build js

package webaudio

import (
	"context"
	"fmt"

	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/ambience/audio"
)

// Fetch loads url with the browser fetch API. Like DecodeAudioData it
// blocks and must be called from a goroutine.
var Fetch audio.Fetcher = audio.FetcherFunc(fetch)

func fetch(ctx context.Context, url string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	send := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}
	fail := func(e *js.Object) {
		send(result{err: fmt.Errorf("fetch %s: %s", url, errorString(e))})
	}

	js.Global.Call("fetch", url).Call("then", func(resp *js.Object) {
		if !resp.Get("ok").Bool() {
			send(result{err: fmt.Errorf("fetch %s: status %d", url, resp.Get("status").Int())})
			return
		}
		resp.Call("arrayBuffer").Call("then", func(ab *js.Object) {
			data := js.Global.Get("Uint8Array").New(ab).Interface().([]byte)
			send(result{data: data})
		}, fail)
	}, fail)

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
