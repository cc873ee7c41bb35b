package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// DefaultPolicy grants every authenticated subject every employee action.
var DefaultPolicy = [][]string{
	{"staff", "employee", "read"},
	{"staff", "employee", "create"},
	{"staff", "employee", "update"},
	{"staff", "employee", "delete"},
	{"member", "employee", "read"},
	{"member", "employee", "create"},
	{"member", "employee", "update"},
	{"member", "employee", "delete"},
}

// NewEnforcer builds the enforcer from the embedded model. A non-empty
// policyPath loads a casbin CSV policy file, otherwise DefaultPolicy is used.
func NewEnforcer(policyPath string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	if policyPath != "" {
		return casbin.NewEnforcer(m, policyPath)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(DefaultPolicy); err != nil {
		return nil, err
	}
	return e, nil
}
