package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Login() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Sinjin Quiz · Sign in</title>
    <link rel="stylesheet" href="`+assetPath("/static/styles.css")+`"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Sinjin Quiz</span>
        <h1>Sign in</h1>
      </header>

      <section class="panel">
        <form id="loginForm" class="join-form">
          <input name="username" placeholder="Username" autocomplete="username" required/>
          <input name="password" type="password" placeholder="Password" autocomplete="current-password" required/>
          <button type="submit" class="primary">Sign in</button>
        </form>
        <div id="loginResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>New here?</h2>
        <form id="registerForm" class="join-form">
          <input name="username" placeholder="Username" autocomplete="username" required/>
          <input name="password" type="password" placeholder="Password" autocomplete="new-password" required/>
          <button type="submit" class="secondary">Register</button>
        </form>
        <div id="registerResult" class="result"></div>
      </section>
    </main>

    <script>
      async function submitAuth(form, path, result) {
        result.textContent = "Working...";
        const res = await fetch(path, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            username: form.elements.username.value.trim(),
            password: form.elements.password.value,
          }),
        });
        const data = await res.json();
        if (!res.ok) {
          result.textContent = data.message || "request failed";
          return;
        }
        window.location.href = "/admin";
      }

      const loginForm = document.getElementById("loginForm");
      loginForm.addEventListener("submit", (event) => {
        event.preventDefault();
        submitAuth(loginForm, "/api/auth/login", document.getElementById("loginResult"));
      });

      const registerForm = document.getElementById("registerForm");
      registerForm.addEventListener("submit", (event) => {
        event.preventDefault();
        submitAuth(registerForm, "/api/auth/register", document.getElementById("registerResult"));
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}
