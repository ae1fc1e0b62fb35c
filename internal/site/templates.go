package site

// pageTemplate is the html/template for standalone navigation pages.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.BasePath}}docnav.css">
</head>
<body>
<div class="layout">
{{- if .Sidebar}}
<nav class="sidebar">
{{.Sidebar}}
</nav>
{{- end}}
<main class="content">
{{.Content}}
</main>
</div>
{{- if .Script}}
<script src="{{.BasePath}}docnav.js"></script>
{{- end}}
</body>
</html>
`

// cssContent styles the sidebar the way the Doxygen tree view does: only
// expanded entries show their children.
const cssContent = `:root {
  --nav-bg: #f9fafc;
  --nav-fg: #364d7c;
  --active-bg: #dce4f1;
  --border: #c4cfe5;
}
body { margin: 0; font: 14px/1.4 "Lucida Grande", Verdana, Geneva, Arial, sans-serif; }
.layout { display: flex; min-height: 100vh; }
.sidebar { width: 300px; background: var(--nav-bg); border-right: 1px solid var(--border); overflow: auto; padding: 8px 0; }
.content { flex: 1; padding: 16px 24px; }
#nav-tree ul { list-style: none; margin: 0; padding-left: 16px; }
#nav-tree > ul { padding-left: 8px; }
#nav-tree li.dir > ul { display: none; }
#nav-tree li.dir.expanded > ul { display: block; }
#nav-tree li.dir::before { content: "\25B8"; display: inline-block; width: 12px; color: var(--nav-fg); }
#nav-tree li.dir.expanded::before { content: "\25BE"; }
#nav-tree li.file::before { content: ""; display: inline-block; width: 12px; }
#nav-tree a { color: var(--nav-fg); text-decoration: none; }
#nav-tree a.active { background: var(--active-bg); font-weight: bold; }
#nav-tree .label { color: var(--nav-fg); }
#nav-tree .deferred > a::after { content: " \2026"; }
#nav-sync { display: block; padding: 2px 8px; font-size: 12px; color: #888; text-decoration: none; }
#nav-sync.sync::before { content: "\21C4 "; }
#nav-sync.nosync::before { content: "\21C6 "; opacity: .5; }
`

// jsContent connects a served sidebar to the /ws panel endpoint. The
// content frame posts its location; the server replies with the panel state
// and the sidebar HTML.
const jsContent = `(function() {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  var nav = document.querySelector(".sidebar");

  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.sidebar && nav) { nav.innerHTML = msg.sidebar; bind(); }
  };

  function send(obj) {
    if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(obj));
  }

  function bind() {
    var sync = document.getElementById("nav-sync");
    if (sync) sync.onclick = function(e) { e.preventDefault(); send({type: "toggle"}); };
    var dirs = document.querySelectorAll("#nav-tree li.dir");
    for (var i = 0; i < dirs.length; i++) {
      dirs[i].onclick = function(e) {
        if (e.target === this) this.classList.toggle("expanded");
        e.stopPropagation();
      };
    }
  }

  ws.onopen = function() {
    var page = location.pathname.replace(/^.*\//, "") + location.hash;
    send({type: "navigate", url: page});
  };
  window.addEventListener("hashchange", function() {
    send({type: "navigate", url: location.pathname.replace(/^.*\//, "") + location.hash});
  });
  bind();
})();
`
