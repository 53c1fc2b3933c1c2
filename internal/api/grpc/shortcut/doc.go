// Package shortcut implements the gRPC transport of the deskclock server.
//
// The service is declared by hand on top of well-known protobuf messages:
// every method takes google.protobuf.Empty and answers with a
// google.protobuf.Struct. The codec helpers convert between those structs
// and the domain types for both the server and the client.
package shortcut
