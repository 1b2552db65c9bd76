// Package descriptor defines the lookup key for one interface method.
//
// A Descriptor pairs a method name with its receiver-less func type. Because
// reflect func types are canonical, descriptors compare with == and serve
// directly as map keys in the resolver cache and binding tables.
//
// Set lists every method of an interface type and is cached per type:
//
//	set, err := descriptor.For[io.ReadWriter]()
//	d, ok := set.Lookup("Write")
//	fmt.Println(d) // Write([]uint8) (int, error)
package descriptor
