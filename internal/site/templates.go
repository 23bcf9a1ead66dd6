package site

// pageTemplate is the html/template for a manual page. The same markup is
// patched in place by live.js when a live session pushes new state.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <meta name="description" content="{{.Description}}">
  <link rel="stylesheet" href="/_static/style.css">
</head>
<body data-manual="{{.Manual}}" data-route="{{.Route}}">
  <nav class="sidebar{{if .SidebarOpen}} open{{end}}" id="sidebar">
    <div class="sidebar-header">
      <a class="manual-title" href="/{{.Manual}}">{{.ManualTitle}}</a>
      <label for="version" class="sr-only">Version</label>
      <select id="version">
        {{range .VersionOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
        {{end}}
      </select>
    </div>
    <div class="sidebar-toc" id="toc">{{.TOCHTML}}</div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <main class="content" id="content">
    <div class="top-bar">
      <button class="menu-toggle" id="menu-toggle" aria-label="Open sidebar">&#9776;</button>
    </div>
    <article class="page-content" id="page">
      {{if .Loading}}<div class="skeleton"><div></div><div></div><div></div></div>
      {{else}}{{.ContentHTML}}
      <div class="page-nav">
        {{with .Prev}}<a class="prev" href="{{.Href}}">&larr; {{.Name}}</a>{{end}}
        {{with .Next}}<a class="next" href="{{.Href}}">{{.Name}} &rarr;</a>{{end}}
      </div>
      {{with .ViewURL}}<div class="view-source"><a href="{{.}}">View on GitHub</a></div>{{end}}
      {{end}}
    </article>
  </main>
  <script src="/_static/live.js"></script>
</body>
</html>`

// cssContent is the stylesheet for manual pages.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-sidebar: #f8f9fa;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --code-bg: #f1f3f5;
  --sidebar-width: 288px;
  --content-max-width: 768px;
}

* { box-sizing: border-box; }
body { margin: 0; display: flex; height: 100vh; overflow: hidden; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; color: var(--text); background: var(--bg); }
a { color: var(--accent); text-decoration: none; }
a:hover { text-decoration: underline; }
.sr-only { position: absolute; width: 1px; height: 1px; overflow: hidden; clip: rect(0, 0, 0, 0); }

.sidebar { width: var(--sidebar-width); flex-shrink: 0; display: flex; flex-direction: column; border-right: 1px solid var(--border); background: var(--bg-sidebar); }
.sidebar-header { padding: 16px; border-bottom: 1px solid var(--border); }
.manual-title { display: block; font-size: 1.5rem; font-weight: 700; color: var(--text); margin-bottom: 12px; }
#version { width: 100%; padding: 4px; }
.sidebar-toc { flex: 1; overflow-y: auto; padding: 8px 16px 32px; }
.toc { padding-left: 8px; font-weight: 600; }
.toc ol { padding-left: 16px; font-weight: 400; }
.toc li { margin: 4px 0; }
.toc a { color: var(--text); }
.toc a.toc-active { color: var(--accent); }
.sidebar-overlay { display: none; }

.content { flex: 1; overflow-y: auto; }
.top-bar { display: none; padding: 8px 16px; border-bottom: 1px solid var(--border); }
.menu-toggle { font-size: 1.5rem; background: none; border: none; cursor: pointer; }
.page-content { max-width: var(--content-max-width); margin: 0 auto; padding: 16px 32px 80px; line-height: 1.6; }
.page-content pre { padding: 12px; overflow-x: auto; border-radius: 4px; background: var(--code-bg); }
.page-content code { font-size: 0.9em; }
.page-nav { padding-top: 16px; border-top: 1px solid var(--border); overflow: hidden; }
.page-nav .prev { color: var(--text); }
.page-nav .next { color: var(--text); float: right; }
.view-source { padding-top: 8px; clear: both; text-align: right; }
.view-source a { color: var(--text-muted); }
.skeleton div { height: 12px; margin-top: 16px; background: var(--code-bg); }
.skeleton div:first-child { height: 32px; width: 33%; }

@media (max-width: 768px) {
  .top-bar { display: block; }
  .sidebar { position: fixed; inset: 0 auto 0 0; z-index: 40; transform: translateX(-100%); transition: transform 0.3s ease-in-out; }
  .sidebar.open { transform: translateX(0); }
  .sidebar.open + .sidebar-overlay { display: block; position: fixed; inset: 0; z-index: 30; background: rgba(0, 0, 0, 0.5); }
}
`

// jsContent upgrades a server-rendered page into a live session. Links
// inside the manual, the version selector and the sidebar toggle become
// messages to the server, which answers with state to patch in.
const jsContent = `(function() {
  var body = document.body;
  var manual = body.dataset.manual;
  if (!window.WebSocket || !manual) return;

  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var ws = new WebSocket(proto + '//' + location.host + '/ws/manual/' + encodeURIComponent(manual) +
    '?route=' + encodeURIComponent(body.dataset.route));
  var live = false;

  function send(msg) { if (live) ws.send(JSON.stringify(msg)); }

  ws.onopen = function() { live = true; };
  ws.onclose = function() { live = false; };

  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    switch (msg.type) {
      case 'state': apply(msg.state); break;
      case 'scroll_top': document.getElementById('content').scrollTo(0, 0); break;
      case 'scroll_toc':
        var active = document.querySelector('.toc-active');
        if (active) active.scrollIntoView({ block: 'nearest' });
        break;
      case 'error': console.error('manualsite:', msg.error); break;
    }
  };

  function esc(s) {
    return String(s).replace(/[&<>"]/g, function(c) {
      return { '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;' }[c];
    });
  }

  function apply(s) {
    if (body.dataset.route !== s.route) {
      history.pushState({ route: s.route }, '', s.route);
      body.dataset.route = s.route;
    }
    document.title = s.title;
    document.getElementById('sidebar').classList.toggle('open', s.sidebar_open);
    document.getElementById('toc').innerHTML = s.toc_html;

    var select = document.getElementById('version');
    select.innerHTML = s.version_options.map(function(o) {
      return '<option value="' + esc(o.value) + '"' + (o.selected ? ' selected' : '') + '>' + esc(o.label) + '</option>';
    }).join('');

    var page = document.getElementById('page');
    if (s.loading) {
      page.innerHTML = '<div class="skeleton"><div></div><div></div><div></div></div>';
      return;
    }
    var nav = '<div class="page-nav">';
    if (s.prev) nav += '<a class="prev" href="' + esc(s.prev.href) + '">&larr; ' + esc(s.prev.name) + '</a>';
    if (s.next) nav += '<a class="next" href="' + esc(s.next.href) + '">' + esc(s.next.name) + ' &rarr;</a>';
    nav += '</div>';
    if (s.view_url) nav += '<div class="view-source"><a href="' + esc(s.view_url) + '">View on GitHub</a></div>';
    page.innerHTML = s.content_html + nav;
  }

  document.addEventListener('click', function(e) {
    if (!live || e.defaultPrevented || e.button !== 0 || e.metaKey || e.ctrlKey || e.shiftKey) return;
    var a = e.target.closest('a');
    if (!a || a.origin !== location.origin) return;
    var first = a.pathname.split('/')[1] || '';
    if (first.split('@')[0] !== manual) return;
    e.preventDefault();
    send({ type: 'navigate', route: a.pathname + a.hash });
  });

  document.getElementById('version').addEventListener('change', function(e) {
    if (!live) {
      var rest = location.pathname.split('/').slice(2).join('/');
      location.href = '/' + manual + (e.target.value ? '@' + e.target.value : '') + '/' + rest;
      return;
    }
    send({ type: 'switch_version', version: e.target.value });
  });

  document.getElementById('menu-toggle').addEventListener('click', function() {
    send({ type: 'open_sidebar' });
  });
  document.getElementById('sidebar-overlay').addEventListener('click', function() {
    send({ type: 'close_sidebar' });
  });

  window.addEventListener('popstate', function(e) {
    var route = (e.state && e.state.route) || location.pathname;
    body.dataset.route = route;
    send({ type: 'navigate', route: route });
  });
})();
`
