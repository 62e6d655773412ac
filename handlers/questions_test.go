// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/expert-qa/models"
	"github.com/danielhkuo/expert-qa/testutil"
)

// qaFixture is alice (asker), bob and carol (experts) and dave (admin)
type qaFixture struct {
	conn                   *sql.DB
	h                      *QuestionHandler
	alice, bob, carol, dave int64
	aliceC, bobC, carolC   *http.Cookie
}

func newQAFixture(t *testing.T) *qaFixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	return &qaFixture{
		conn:   conn,
		h:      NewQuestionHandler(cfg),
		alice:  testutil.CreateTestUser(t, conn, "alice", "pw", false, false),
		bob:    testutil.CreateTestUser(t, conn, "bob", "pw", true, false),
		carol:  testutil.CreateTestUser(t, conn, "carol", "pw", true, false),
		dave:   testutil.CreateTestUser(t, conn, "dave", "pw", false, true),
		aliceC: testutil.SessionCookie(t, cfg, "alice"),
		bobC:   testutil.SessionCookie(t, cfg, "bob"),
		carolC: testutil.SessionCookie(t, cfg, "carol"),
	}
}

func answerText(t *testing.T, conn *sql.DB, id int64) *string {
	t.Helper()
	var answer sql.NullString
	require.NoError(t, conn.QueryRow(`SELECT answer_text FROM questions WHERE id = ?`, id).Scan(&answer))
	if !answer.Valid {
		return nil
	}
	return &answer.String
}

func askForm(expertID int64, question string) url.Values {
	return url.Values{"selection": {strconv.FormatInt(expertID, 10)}, "question": {question}}
}

func TestHome_ListsOnlyAnswered(t *testing.T) {
	f := newQAFixture(t)

	testutil.CreateTestQuestion(t, f.conn, "Open question", f.alice, f.bob, "")
	answered := testutil.CreateTestQuestion(t, f.conn, "Closed question", f.alice, f.carol, "Because")

	w := serve(f.h.Home, testutil.MakeRequest("GET", "/", nil), f.conn)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.HomeView
	testutil.AssertJSON(t, w, &view)
	assert.Nil(t, view.User)
	require.Len(t, view.Questions, 1)
	assert.Equal(t, answered, view.Questions[0].QuestionID)
	assert.Equal(t, "alice", view.Questions[0].AskedBy)
	assert.Equal(t, "carol", view.Questions[0].ExpertName)

	w = serve(f.h.Home, testutil.MakeRequest("GET", "/", f.aliceC), f.conn)
	testutil.AssertJSON(t, w, &view)
	require.NotNil(t, view.User)
	assert.Equal(t, "alice", view.User.Name)
}

func TestQuestion(t *testing.T) {
	f := newQAFixture(t)
	id := testutil.CreateTestQuestion(t, f.conn, "How?", f.alice, f.bob, "Carefully")

	t.Run("anonymous redirects to login", func(t *testing.T) {
		w := serve(f.h.Question, withID(testutil.MakeRequest("GET", "/question/1", nil), id), f.conn)
		testutil.AssertRedirect(t, w, "/login")
	})

	t.Run("found", func(t *testing.T) {
		w := serve(f.h.Question, withID(testutil.MakeRequest("GET", "/question/1", f.carolC), id), f.conn)
		testutil.AssertStatus(t, w, http.StatusOK)

		var view models.QuestionView
		testutil.AssertJSON(t, w, &view)
		assert.True(t, view.Found)
		assert.Equal(t, "How?", view.QuestionText)
		require.NotNil(t, view.AnswerText)
		assert.Equal(t, "Carefully", *view.AnswerText)
		assert.Equal(t, "alice", view.AskedBy)
		assert.Equal(t, "bob", view.AnsweredBy)
	})

	t.Run("absent", func(t *testing.T) {
		w := serve(f.h.Question, withID(testutil.MakeRequest("GET", "/question/999", f.carolC), 999), f.conn)
		testutil.AssertStatus(t, w, http.StatusOK)

		var view models.QuestionView
		testutil.AssertJSON(t, w, &view)
		assert.False(t, view.Found)
	})
}

func TestUnanswered_ScopedToExpert(t *testing.T) {
	f := newQAFixture(t)

	forBob := testutil.CreateTestQuestion(t, f.conn, "For bob", f.alice, f.bob, "")
	testutil.CreateTestQuestion(t, f.conn, "For bob, answered", f.alice, f.bob, "Done")
	forCarol := testutil.CreateTestQuestion(t, f.conn, "For carol", f.alice, f.carol, "")

	w := serve(f.h.Unanswered, testutil.MakeRequest("GET", "/unanswered", f.bobC), f.conn)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.UnansweredView
	testutil.AssertJSON(t, w, &view)
	require.Len(t, view.Questions, 1)
	assert.Equal(t, forBob, view.Questions[0].QuestionID)
	assert.Equal(t, "alice", view.Questions[0].AskedBy)

	w = serve(f.h.Unanswered, testutil.MakeRequest("GET", "/unanswered", f.carolC), f.conn)
	testutil.AssertJSON(t, w, &view)
	require.Len(t, view.Questions, 1)
	assert.Equal(t, forCarol, view.Questions[0].QuestionID)

	// non-experts are sent home
	w = serve(f.h.Unanswered, testutil.MakeRequest("GET", "/unanswered", f.aliceC), f.conn)
	testutil.AssertRedirect(t, w, "/")

	w = serve(f.h.Unanswered, testutil.MakeRequest("GET", "/unanswered", nil), f.conn)
	testutil.AssertRedirect(t, w, "/")
}

func TestAsk(t *testing.T) {
	f := newQAFixture(t)

	t.Run("show lists current experts", func(t *testing.T) {
		w := serve(f.h.ShowAsk, testutil.MakeRequest("GET", "/ask", f.aliceC), f.conn)
		testutil.AssertStatus(t, w, http.StatusOK)

		var view models.AskView
		testutil.AssertJSON(t, w, &view)
		require.Len(t, view.Experts, 2)
		assert.Equal(t, "bob", view.Experts[0].Name)
		assert.Equal(t, "carol", view.Experts[1].Name)
	})

	t.Run("submit creates unanswered question", func(t *testing.T) {
		w := serve(f.h.Ask, testutil.MakeFormRequest("/ask", askForm(f.bob, "What is Go?"), f.aliceC), f.conn)
		testutil.AssertStatus(t, w, http.StatusOK)

		var view models.AskView
		testutil.AssertJSON(t, w, &view)
		assert.Equal(t, models.MsgQuestionSubmitted, view.Message)
		require.NotZero(t, view.QuestionID)
		assert.Nil(t, answerText(t, f.conn, view.QuestionID))

		var askedBy, expertID int64
		require.NoError(t, f.conn.QueryRow(`SELECT asked_by_id, expert_id FROM questions WHERE id = ?`, view.QuestionID).
			Scan(&askedBy, &expertID))
		assert.Equal(t, f.alice, askedBy)
		assert.Equal(t, f.bob, expertID)
	})

	warnings := []struct {
		name     string
		form     url.Values
		expected string
	}{
		{"no expert chosen", url.Values{"question": {"Q?"}}, models.WarnChooseExpert},
		{"non-expert chosen", askForm(f.dave, "Q?"), models.WarnChooseExpert},
		{"unknown user chosen", askForm(9999, "Q?"), models.WarnChooseExpert},
		{"empty question", askForm(f.bob, "  "), models.WarnEmptyQuestion},
	}
	for _, tc := range warnings {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(f.h.Ask, testutil.MakeFormRequest("/ask", tc.form, f.aliceC), f.conn)
			testutil.AssertStatus(t, w, http.StatusOK)

			var view models.AskView
			testutil.AssertJSON(t, w, &view)
			assert.Equal(t, tc.expected, view.Warning)
			assert.Zero(t, view.QuestionID)
		})
	}

	t.Run("experts and anonymous cannot ask", func(t *testing.T) {
		w := serve(f.h.ShowAsk, testutil.MakeRequest("GET", "/ask", f.bobC), f.conn)
		testutil.AssertRedirect(t, w, "/")

		w = serve(f.h.Ask, testutil.MakeFormRequest("/ask", askForm(f.carol, "Q?"), f.bobC), f.conn)
		testutil.AssertRedirect(t, w, "/")

		w = serve(f.h.Ask, testutil.MakeFormRequest("/ask", askForm(f.carol, "Q?"), nil), f.conn)
		testutil.AssertRedirect(t, w, "/")
	})

	var count int
	require.NoError(t, f.conn.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestAnswer_Lifecycle(t *testing.T) {
	f := newQAFixture(t)
	id := testutil.CreateTestQuestion(t, f.conn, "Why?", f.alice, f.bob, "")

	w := serve(f.h.ShowAnswer, withID(testutil.MakeRequest("GET", "/answer/1", f.bobC), id), f.conn)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.AnswerView
	testutil.AssertJSON(t, w, &view)
	assert.True(t, view.Found)
	assert.Equal(t, "Why?", view.QuestionText)

	// an empty answer keeps the question open
	form := url.Values{"answer_by_expert": {" "}}
	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/1", form, f.bobC), id), f.conn)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &view)
	assert.Equal(t, models.WarnEmptyAnswer, view.Warning)
	assert.Nil(t, answerText(t, f.conn, id))

	form = url.Values{"answer_by_expert": {"Because."}}
	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/1", form, f.bobC), id), f.conn)
	testutil.AssertRedirect(t, w, "/")

	got := answerText(t, f.conn, id)
	require.NotNil(t, got)
	assert.Equal(t, "Because.", *got)

	// gone from the queue
	w = serve(f.h.Unanswered, testutil.MakeRequest("GET", "/unanswered", f.bobC), f.conn)
	var queue models.UnansweredView
	testutil.AssertJSON(t, w, &queue)
	assert.Empty(t, queue.Questions)

	// answered is terminal
	w = serve(f.h.ShowAnswer, withID(testutil.MakeRequest("GET", "/answer/1", f.bobC), id), f.conn)
	testutil.AssertJSON(t, w, &view)
	assert.False(t, view.Found)
	assert.Equal(t, models.MsgAlreadyAnswered, view.QuestionText)

	form = url.Values{"answer_by_expert": {"Changed my mind"}}
	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/1", form, f.bobC), id), f.conn)
	testutil.AssertRedirect(t, w, "/")
	assert.Equal(t, "Because.", *answerText(t, f.conn, id))
}

func TestAnswer_OtherExpertBlocked(t *testing.T) {
	f := newQAFixture(t)
	id := testutil.CreateTestQuestion(t, f.conn, "For bob only", f.alice, f.bob, "")

	w := serve(f.h.ShowAnswer, withID(testutil.MakeRequest("GET", "/answer/1", f.carolC), id), f.conn)
	testutil.AssertRedirect(t, w, "/login")

	form := url.Values{"answer_by_expert": {"Hijacked"}}
	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/1", form, f.carolC), id), f.conn)
	testutil.AssertRedirect(t, w, "/login")
	assert.Nil(t, answerText(t, f.conn, id))

	// the asker is not the addressed expert either
	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/1", form, f.aliceC), id), f.conn)
	testutil.AssertRedirect(t, w, "/login")
	assert.Nil(t, answerText(t, f.conn, id))

	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/1", form, nil), id), f.conn)
	testutil.AssertRedirect(t, w, "/")
	assert.Nil(t, answerText(t, f.conn, id))
}

func TestAnswer_UnknownQuestion(t *testing.T) {
	f := newQAFixture(t)

	w := serve(f.h.ShowAnswer, withID(testutil.MakeRequest("GET", "/answer/42", f.bobC), 42), f.conn)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.AnswerView
	testutil.AssertJSON(t, w, &view)
	assert.False(t, view.Found)
	assert.Equal(t, models.MsgAlreadyAnswered, view.QuestionText)

	form := url.Values{"answer_by_expert": {"Into the void"}}
	w = serve(f.h.Answer, withID(testutil.MakeFormRequest("/answer/42", form, f.bobC), 42), f.conn)
	testutil.AssertRedirect(t, w, "/")
}

func TestHome_DatabaseError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("FROM questions q").WillReturnError(errors.New("no such table: questions"))

	h := NewQuestionHandler(testutil.GetTestConfig())
	w := serve(h.Home, testutil.MakeRequest("GET", "/", nil), conn)
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	require.NoError(t, mock.ExpectationsWereMet())
}
