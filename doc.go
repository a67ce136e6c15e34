// Package babeltrace reads CTF traces through the babeltrace 1 C library.
//
// The package owns nothing but native handles: parsing, stream merging and
// scope resolution all happen in libbabeltrace. Build with cgo and the
// "babeltrace" tag to link it; without the tag NewContext fails with
// ErrContextCreation.
//
// # Usage
//
//	ctx, err := babeltrace.NewContext()
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	if _, err := ctx.AddTrace("/path/to/trace", babeltrace.FormatCTF); err != nil {
//	    return err
//	}
//
//	it, err := ctx.Iterator()
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//
//	for ev := range it.All() {
//	    if ev.Name() != "string" {
//	        continue
//	    }
//	    s, err := ev.Str(nil, "str")
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(s)
//	}
//
// # Lifetimes
//
// Context and Iterator own native resources and must be closed; Close is
// idempotent. Event and Definition are views into the iterator's current
// step and become invalid when the iterator moves. Copy values out with the
// typed getters before calling Next again.
//
// # Concurrency
//
// A Context may move between goroutines but must not be used by two of them
// at once. Value extraction is serialised process-wide because babeltrace
// reports extraction errors through a global flag.
package babeltrace
