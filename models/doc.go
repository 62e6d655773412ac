// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain types, form types and view-models.

# Domain Types

  - User: id, name, expert and admin flags; the password hash never
    serializes
  - Question: text, optional answer, asker and expert ids

Role checks are methods on *User and treat nil as anonymous:

	user.IsExpert(), user.IsAdmin(), user.CanAsk(), user.CanAnswer(q)

# Forms

RegisterForm, LoginForm, AskForm and AnswerForm carry validator tags.

# Views

Each page is a JSON view-model: HomeView, RegisterView, LoginView,
QuestionView, UnansweredView, AnswerView, AskView and UsersView. Validation
problems come back as a Warning string in the view, never as an error status.
*/
package models
