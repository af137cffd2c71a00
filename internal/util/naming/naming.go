package naming

import "fmt"

// Tag is the fixed component shared by every resource name.
const Tag = "qserv"

// GatewayIndex is the instance index of the gateway node.
const GatewayIndex = 0

// KeyPair returns the name of the SSH keypair registered for user.
func KeyPair(user string) string {
	return fmt.Sprintf("%s-%s", user, Tag)
}

// Instance returns the name of the instance with the given index.
func Instance(user string, index int) string {
	return fmt.Sprintf("%s-%s-%d", user, Tag, index)
}

// Gateway returns the name of the gateway instance.
func Gateway(user string) string {
	return Instance(user, GatewayIndex)
}

// Instances returns the names of the gateway followed by workers 1..workers.
func Instances(user string, workers int) []string {
	names := make([]string, 0, workers+1)
	for i := GatewayIndex; i <= workers; i++ {
		names = append(names, Instance(user, i))
	}
	return names
}

// Role returns "gateway" for index 0 and "worker" otherwise.
func Role(index int) string {
	if index == GatewayIndex {
		return "gateway"
	}
	return "worker"
}
