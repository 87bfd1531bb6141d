// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// Objects and actions known to the policy.
const (
	ObjectSmartOLTSync = "sync:smartolt"
	ActionTrigger      = "trigger"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// defaultPolicy is used when no policy file is configured.
var defaultPolicy = [][]string{
	{"ADMIN", ObjectSmartOLTSync, ActionTrigger},
	{"CRON", ObjectSmartOLTSync, ActionTrigger},
}

// Enforcer answers role/object/action questions. It is safe for concurrent
// use.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the policy at policyPath, or the built-in policy when
// policyPath is empty.
func NewEnforcer(policyPath string) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if policyPath != "" {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			_, err = enforcer.AddPolicies(defaultPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{enforcer: enforcer}, nil
}

// MustNewDefault returns an enforcer with the built-in policy. The policy is
// compiled in, so a failure is a programming error.
func MustNewDefault() *Enforcer {
	e, err := NewEnforcer("")
	if err != nil {
		panic(err)
	}
	return e
}

// Enforce reports whether role may perform action on object.
func (e *Enforcer) Enforce(role, object, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// CanTriggerSync is Enforce for the SmartOLT sync. Enforcement errors deny.
func (e *Enforcer) CanTriggerSync(role string) bool {
	allowed, err := e.Enforce(role, ObjectSmartOLTSync, ActionTrigger)
	return err == nil && allowed
}

// Policy returns the loaded policy rules.
func (e *Enforcer) Policy() [][]string {
	//nolint:errcheck // only fails on a nil model
	policies, _ := e.enforcer.GetPolicy()
	return policies
}
