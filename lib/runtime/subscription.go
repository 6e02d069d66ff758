// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import "reflect"

// Subscription is a long-lived background message producer. The
// descriptor (the Subscription value itself) doubles as the
// subscription's identity: two descriptors that compare equal under
// [sameDescriptor] name the same subscription, even when they are
// distinct values built on different update cycles. Applications
// return the desired descriptor set from Subscriptions each cycle and
// the runtime starts, keeps, or stops workers to match.
//
// Run executes on a dedicated goroutine. It must poll halt at every
// iteration boundary and return promptly once the flag is raised;
// cancellation is cooperative, never preemptive. Run never sees the
// model — send is its only channel back into the application.
type Subscription[M any] interface {
	Run(send Sender[M], halt *Flag)
}

// Equaler lets a subscription type define its own identity test.
// Descriptors that are not comparable with == (func fields, slices,
// maps) implement this; the argument is the other descriptor, which
// the implementation should type-assert to its own concrete type.
type Equaler interface {
	EqualSubscription(other any) bool
}

// sameDescriptor reports whether two subscription descriptors identify
// the same subscription. The comparison never requires the caller to
// know the concrete types: an Equaler implementation is delegated to,
// otherwise values of identical dynamic type fall back to their
// natural equality (== for comparable types, deep equality for the
// rest). Values of different dynamic types are never equal.
func sameDescriptor[M any](a, b Subscription[M]) bool {
	if equaler, ok := a.(Equaler); ok {
		return equaler.EqualSubscription(b)
	}

	typeA := reflect.TypeOf(a)
	typeB := reflect.TypeOf(b)
	if typeA != typeB {
		return false
	}
	if typeA != nil && !typeA.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
