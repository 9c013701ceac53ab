package repository

import (
	"reflect"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestAppendScopeClause(t *testing.T) {
	tests := []struct {
		name        string
		scope       domain.AccessScope
		wantClauses []string
		wantArgs    []any
	}{
		{
			name:        "admin sees everything",
			scope:       domain.AccessScope{Kind: domain.ScopeAdmin},
			wantClauses: []string{"1=1"},
			wantArgs:    []any{},
		},
		{
			name:        "employee bound to raiser or assignee",
			scope:       domain.AccessScope{Kind: domain.ScopeEmployee, UserID: "user-7"},
			wantClauses: []string{"1=1", "(raised_by_user_id=$1 OR assigned_to_user_id=$1)"},
			wantArgs:    []any{"user-7"},
		},
		{
			name:        "client bound to its projects",
			scope:       domain.AccessScope{Kind: domain.ScopeClient, ClientID: "client-3"},
			wantClauses: []string{"1=1", "project_id IN (SELECT id FROM projects WHERE client_id=$1)"},
			wantArgs:    []any{"client-3"},
		},
		{
			name:        "unknown kind matches nothing",
			scope:       domain.AccessScope{Kind: "MYSTERY"},
			wantClauses: []string{"1=1", "1=0"},
			wantArgs:    []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses, args := appendScopeClause(tt.scope, []string{"1=1"}, []any{})
			if !reflect.DeepEqual(clauses, tt.wantClauses) {
				t.Errorf("clauses = %v, want %v", clauses, tt.wantClauses)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestAppendScopeClauseArgNumbering(t *testing.T) {
	clauses, args := appendScopeClause(
		domain.AccessScope{Kind: domain.ScopeEmployee, UserID: "user-9"},
		[]string{"1=1", "is_deleted=FALSE"},
		[]any{"existing"},
	)
	want := "(raised_by_user_id=$2 OR assigned_to_user_id=$2)"
	if clauses[len(clauses)-1] != want {
		t.Errorf("clause = %q, want %q", clauses[len(clauses)-1], want)
	}
	if len(args) != 2 || args[1] != "user-9" {
		t.Errorf("args = %v", args)
	}
}
