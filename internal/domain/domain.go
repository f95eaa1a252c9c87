package domain

import (
	"github.com/schoolatlas/schoolatlas-backend/internal/domain/community"
	"github.com/schoolatlas/schoolatlas-backend/internal/domain/directory"
)

type School = directory.School
type City = directory.City

type Review = community.Review
type Submission = community.Submission

const (
	SubmissionKindReview    = community.SubmissionKindReview
	SubmissionKindNewSchool = community.SubmissionKindNewSchool

	SubmissionStatusPending  = community.SubmissionStatusPending
	SubmissionStatusApproved = community.SubmissionStatusApproved
	SubmissionStatusRejected = community.SubmissionStatusRejected

	RoleLevelClassroomTeacher = community.RoleLevelClassroomTeacher
	RoleLevelTeacherLeader    = community.RoleLevelTeacherLeader
	RoleLevelSeniorLeadership = community.RoleLevelSeniorLeadership
)
