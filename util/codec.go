package util

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses core deterministic encoding so that the same trajectory
// always produces identical bytes
var encMode cbor.EncMode

// decMode decodes maps into map[string]any instead of map[any]any
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("util: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("util: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
