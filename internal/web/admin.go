package web

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Admin renders the control console: timer commands, round pairing,
// point adjustments, and category/question management. All writes go
// through the JSON API with the session cookie.
func Admin(pollSeconds int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Sinjin Quiz · Admin</title>
    <link rel="stylesheet" href="`+assetPath("/static/styles.css")+`"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Admin console</span>
        <h1>Run the competition</h1>
        <p id="adminStatus"></p>
      </header>

      <section class="panel">
        <h2>Timer</h2>
        <div class="timer-row">
          <span id="timerValue" class="timer-value">--:--</span>
          <button id="startBtn" class="primary">Start</button>
          <button id="stopBtn" class="secondary">Stop</button>
          <button id="resetBtn" class="secondary">Reset</button>
        </div>
        <form id="durationForm" class="inline-form">
          <input id="durationInput" type="number" min="1" placeholder="Duration (seconds)"/>
          <button type="submit" class="secondary">Set duration</button>
        </form>
      </section>

      <section class="panel">
        <h2>Current round</h2>
        <form id="roundForm" class="inline-form">
          <select id="team1Select"></select>
          <span>vs</span>
          <select id="team2Select"></select>
          <button type="submit" class="primary">Pair</button>
          <button type="button" id="clearRoundBtn" class="secondary">Clear</button>
        </form>
        <form id="phaseForm" class="inline-form">
          <select id="phaseSelect">
            <option value="idle">idle</option>
            <option value="team1_turn">team 1 turn</option>
            <option value="team2_turn">team 2 turn</option>
          </select>
          <button type="submit" class="secondary">Set phase</button>
        </form>
      </section>

      <section class="panel">
        <h2>Teams</h2>
        <table class="standings">
          <thead><tr><th>Team</th><th>Points</th><th></th></tr></thead>
          <tbody id="teamsBody"></tbody>
        </table>
      </section>

      <section class="panel">
        <h2>Categories and questions</h2>
        <form id="categoryForm" class="inline-form">
          <input id="categoryName" placeholder="Category name" required/>
          <button type="submit" class="secondary">Add category</button>
        </form>
        <form id="questionForm" class="inline-form">
          <select id="questionCategory"></select>
          <input id="questionContent" placeholder="Question" required/>
          <input id="questionPoints" type="number" min="1" placeholder="Points"/>
          <button type="submit" class="secondary">Add question</button>
        </form>
        <ul id="questionList" class="question-list"></ul>
      </section>
    </main>

    <script>
      const POLL_MS = `+strconv.Itoa(pollSeconds*1000)+`;
      const status = document.getElementById("adminStatus");

      let settings = null;
      let teams = [];
      let categories = [];
      let questions = [];

      function remainingSeconds() {
        if (!settings) return 0;
        const duration = settings.timerDuration;
        if (duration <= 0) return 0;
        if (settings.timerActive && settings.timerStartTime) {
          const started = Date.parse(settings.timerStartTime);
          return Math.max(0, Math.min(duration, duration - (Date.now() - started) / 1000));
        }
        if (settings.timerStartTime && settings.timerStopTime) {
          const started = Date.parse(settings.timerStartTime);
          const stopped = Date.parse(settings.timerStopTime);
          return Math.max(0, Math.min(duration, duration - (stopped - started) / 1000));
        }
        return duration;
      }

      function formatClock(seconds) {
        const whole = Math.ceil(seconds);
        const m = Math.floor(whole / 60);
        const s = whole % 60;
        return String(m).padStart(2, "0") + ":" + String(s).padStart(2, "0");
      }

      function renderTimer() {
        document.getElementById("timerValue").textContent = formatClock(remainingSeconds());
      }

      async function api(method, path, body) {
        const res = await fetch(path, {
          method,
          headers: body ? { "Content-Type": "application/json" } : undefined,
          body: body ? JSON.stringify(body) : undefined,
        });
        if (res.status === 401) {
          window.location.href = "/login";
          throw new Error("not authenticated");
        }
        if (res.status === 204) return null;
        const data = await res.json();
        if (!res.ok) {
          status.textContent = data.message || "request failed";
          throw new Error(data.message || "request failed");
        }
        status.textContent = "";
        return data;
      }

      async function updateSettings(fields) {
        settings = await api("PUT", "/api/settings", fields);
        renderTimer();
        renderRoundSelects();
      }

      function renderRoundSelects() {
        const t1 = document.getElementById("team1Select");
        const t2 = document.getElementById("team2Select");
        for (const select of [t1, t2]) {
          select.innerHTML = "";
          teams.forEach((team) => {
            const option = document.createElement("option");
            option.value = team.id;
            option.textContent = team.name;
            select.appendChild(option);
          });
        }
        if (settings && settings.currentRoundTeam1Id) t1.value = settings.currentRoundTeam1Id;
        if (settings && settings.currentRoundTeam2Id) t2.value = settings.currentRoundTeam2Id;
        if (settings) document.getElementById("phaseSelect").value = settings.currentPhase || "idle";
      }

      function renderTeams() {
        const body = document.getElementById("teamsBody");
        body.innerHTML = "";
        teams.forEach((team) => {
          const row = document.createElement("tr");
          row.innerHTML = "<td>" + team.name + "</td><td>" + team.points + "</td>";
          const cell = document.createElement("td");
          for (const delta of [10, -10]) {
            const btn = document.createElement("button");
            btn.className = "secondary";
            btn.textContent = delta > 0 ? "+10" : "-10";
            btn.addEventListener("click", async () => {
              await api("PUT", "/api/teams/" + team.id, { points: team.points + delta });
              await poll();
            });
            cell.appendChild(btn);
          }
          row.appendChild(cell);
          body.appendChild(row);
        });
      }

      function renderQuestions() {
        const categorySelect = document.getElementById("questionCategory");
        categorySelect.innerHTML = "";
        categories.forEach((category) => {
          const option = document.createElement("option");
          option.value = category.id;
          option.textContent = category.name;
          categorySelect.appendChild(option);
        });
        const list = document.getElementById("questionList");
        list.innerHTML = "";
        questions.forEach((question) => {
          const category = categories.find((c) => c.id === question.categoryId);
          const item = document.createElement("li");
          item.textContent = (category ? category.name + ": " : "") +
            question.content + " (" + question.points + " pts) ";
          const del = document.createElement("button");
          del.className = "secondary";
          del.textContent = "delete";
          del.addEventListener("click", async () => {
            await api("DELETE", "/api/questions/" + question.id);
            await poll();
          });
          item.appendChild(del);
          list.appendChild(item);
        });
      }

      async function poll() {
        const [settingsData, teamsData, categoriesData, questionsData] = await Promise.all([
          api("GET", "/api/settings"),
          api("GET", "/api/teams"),
          api("GET", "/api/categories"),
          api("GET", "/api/questions"),
        ]);
        settings = settingsData;
        teams = teamsData;
        categories = categoriesData;
        questions = questionsData;
        renderTimer();
        renderRoundSelects();
        renderTeams();
        renderQuestions();
      }

      document.getElementById("startBtn").addEventListener("click", () => updateSettings({ command: "start" }));
      document.getElementById("stopBtn").addEventListener("click", () => updateSettings({ command: "stop" }));
      document.getElementById("resetBtn").addEventListener("click", () => updateSettings({ command: "reset" }));

      document.getElementById("durationForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const value = parseInt(document.getElementById("durationInput").value, 10);
        if (!value || value <= 0) return;
        await updateSettings({ timerDuration: value });
      });

      document.getElementById("roundForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        await updateSettings({
          currentRoundTeam1Id: parseInt(document.getElementById("team1Select").value, 10),
          currentRoundTeam2Id: parseInt(document.getElementById("team2Select").value, 10),
        });
      });
      document.getElementById("clearRoundBtn").addEventListener("click", async () => {
        await updateSettings({ currentRoundTeam1Id: null, currentRoundTeam2Id: null });
      });

      document.getElementById("phaseForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        await updateSettings({ currentPhase: document.getElementById("phaseSelect").value });
      });

      document.getElementById("categoryForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const name = document.getElementById("categoryName").value.trim();
        if (!name) return;
        await api("POST", "/api/categories", { name });
        document.getElementById("categoryName").value = "";
        await poll();
      });

      document.getElementById("questionForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const content = document.getElementById("questionContent").value.trim();
        const categoryId = parseInt(document.getElementById("questionCategory").value, 10);
        if (!content || !categoryId) return;
        const pointsRaw = document.getElementById("questionPoints").value;
        const body = { content, categoryId };
        if (pointsRaw) body.points = parseInt(pointsRaw, 10);
        await api("POST", "/api/questions", body);
        document.getElementById("questionContent").value = "";
        document.getElementById("questionPoints").value = "";
        await poll();
      });

      poll();
      const pollHandle = setInterval(poll, POLL_MS);
      const tickHandle = setInterval(renderTimer, 1000);
      window.addEventListener("pagehide", () => {
        clearInterval(pollHandle);
        clearInterval(tickHandle);
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}
