package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CoursePayloadKey returns the cache key for a published course's learner payload.
func (r *CacheKeyStruct) CoursePayloadKey(courseSlug string) string {
	return fmt.Sprintf("course:%s:payload", courseSlug)
}

// LessonPayloadKey returns the cache key for a lesson's learner payload.
func (r *CacheKeyStruct) LessonPayloadKey(courseSlug, lessonSlug string) string {
	return fmt.Sprintf("course:%s:lesson:%s:payload", courseSlug, lessonSlug)
}

// LearnerProgressKey returns the hash key holding a learner's progress records
// for one course. Fields are lesson slugs.
func (r *CacheKeyStruct) LearnerProgressKey(learnerID, courseSlug string) string {
	return fmt.Sprintf("learner:%s:course:%s:progress", learnerID, courseSlug)
}

// LessonSessionKey returns the key for a learner's open lesson session.
func (r *CacheKeyStruct) LessonSessionKey(learnerID, courseSlug, lessonSlug string) string {
	return fmt.Sprintf("learner:%s:course:%s:lesson:%s:session", learnerID, courseSlug, lessonSlug)
}

// LessonSessionPattern returns the MATCH pattern covering all of a learner's
// lesson sessions within one course.
func (r *CacheKeyStruct) LessonSessionPattern(learnerID, courseSlug string) string {
	return fmt.Sprintf("learner:%s:course:%s:lesson:*:session", learnerID, courseSlug)
}

var CacheKey = NewCacheKeyStruct()
