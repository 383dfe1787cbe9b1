package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRoles(t *testing.T) {
	cfg := &Config{AppGroup: "acme", BootstrapModule: "boot"}

	testcases := []struct {
		name string
		node *Node
		want Role
	}{
		{
			name: "system group",
			node: &Node{Group: "io.rhizomatic", Name: "kernel"},
			want: RoleSystem,
		},
		{
			name: "bootstrap module",
			node: &Node{Group: "acme", Name: "boot"},
			want: RoleBootstrap,
		},
		{
			name: "application module",
			node: &Node{Group: "acme", Name: "other"},
			want: RoleApplication,
		},
		{
			name: "third party library",
			node: &Node{Group: "thirdparty", Name: "x"},
			want: RoleLibrary,
		},
		{
			name: "system group beats app group config",
			node: &Node{Group: "io.rhizomatic", Name: "boot"},
			want: RoleSystem,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.node, cfg))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	cfg := &Config{AppGroup: "acme", BootstrapModule: "boot"}
	n := &Node{Group: "acme", Name: "boot"}

	first := Classify(n, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(n, cfg))
	}
}

func TestClassifyWithoutAppGroup(t *testing.T) {
	cfg := &Config{}

	assert.Equal(t, RoleLibrary, Classify(&Node{Group: "acme", Name: "boot"}, cfg))
	assert.Equal(t, RoleSystem, Classify(&Node{Group: "io.rhizomatic", Name: "scan"}, cfg))
}

func TestClassifyWithoutBootstrapModule(t *testing.T) {
	cfg := &Config{AppGroup: "acme"}

	// No bootstrap configured: every app-group node is an application module.
	assert.Equal(t, RoleApplication, Classify(&Node{Group: "acme", Name: "boot"}, cfg))
}
