// SPDX-License-Identifier: EPL-2.0

package node

import "errors"

var (
	// ErrResourceAllocation is returned when a node cannot acquire its render
	// resources. It usually wraps the underlying cause.
	ErrResourceAllocation = errors.New("render resource allocation failed")

	// ErrAlreadyAllocated is a logic error: resources were requested twice
	// without a deallocation in between.
	ErrAlreadyAllocated = errors.New("render resources already allocated")

	// ErrNodeActive is returned for changes that are only allowed while the
	// node has no render resources.
	ErrNodeActive = errors.New("node has render resources allocated")

	ErrInstantiationFailed = errors.New("instantiation failed")
	ErrComponentNotFound   = errors.New("component not registered")
	ErrRegistryFrozen      = errors.New("component registry is frozen")
	ErrInvalidFourCC       = errors.New("four character code must be 4 ASCII characters")
)
