// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"
	"time"
)

func TestSubscriptionActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    SubscriptionStatus
		expiresAt time.Time
		want      bool
	}{
		{"active before expiry", SubscriptionActive, now.Add(time.Hour), true},
		{"active past expiry", SubscriptionActive, now.Add(-time.Hour), false},
		{"canceled but paid through", SubscriptionCanceled, now.Add(time.Hour), true},
		{"canceled and expired", SubscriptionCanceled, now.Add(-time.Hour), false},
		{"expiring exactly now", SubscriptionActive, now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subscription{Status: tt.status, ExpiresAt: tt.expiresAt}
			if got := s.ActiveAt(now); got != tt.want {
				t.Errorf("ActiveAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserRoles(t *testing.T) {
	tests := []struct {
		role        Role
		staff       bool
		canModerate bool
	}{
		{RoleReader, false, false},
		{RoleWatcher, true, false},
		{RoleModerator, true, true},
		{RoleAdmin, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsStaff(); got != tt.staff {
				t.Errorf("IsStaff = %v, want %v", got, tt.staff)
			}
			if got := u.CanModerate(); got != tt.canModerate {
				t.Errorf("CanModerate = %v, want %v", got, tt.canModerate)
			}
		})
	}

	t.Run("2fa setup needed for staff only", func(t *testing.T) {
		staff := &User{Role: RoleWatcher}
		if !staff.Needs2FASetup() {
			t.Error("unenrolled staff must need setup")
		}
		staff.TOTPEnabled = true
		if staff.Needs2FASetup() {
			t.Error("enrolled staff must not need setup")
		}
		reader := &User{Role: RoleReader}
		if reader.Needs2FASetup() {
			t.Error("readers never enroll")
		}
	})
}
