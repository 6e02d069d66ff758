// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"sync"
	"testing"
)

func TestFlagStartsUnraised(t *testing.T) {
	flag := NewFlag()
	if flag.Raised() {
		t.Error("new flag is raised")
	}
}

func TestFlagRaiseIsSticky(t *testing.T) {
	flag := NewFlag()
	flag.Raise()
	if !flag.Raised() {
		t.Error("flag not raised after Raise")
	}
	flag.Raise()
	if !flag.Raised() {
		t.Error("flag lowered by a second Raise")
	}
}

func TestFlagConcurrentRaise(t *testing.T) {
	flag := NewFlag()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flag.Raise()
		}()
	}
	wg.Wait()

	if !flag.Raised() {
		t.Error("flag not raised after concurrent Raise calls")
	}
}

func TestFlagsAreIndependent(t *testing.T) {
	quit := NewFlag()
	halt := NewFlag()
	quit.Raise()
	if halt.Raised() {
		t.Error("raising one flag raised another")
	}
}
